// Package chatcmder provides the chat command for interactive conversations
// with the assistant.
package chatcmder

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/config"
	"github.com/papercomputeco/huddle/pkg/conversation"
	"github.com/papercomputeco/huddle/pkg/dotdir"
	"github.com/papercomputeco/huddle/pkg/logger"
)

const chatLongDesc string = `Start an interactive chat with the assistant.

On a terminal the chat runs full screen: Enter sends, Ctrl+Y copies the
last reply, Ctrl+L clears the conversation, Esc dismisses an error
banner and Ctrl+C quits. Logs go to chat.log in the .huddle/ directory.

When stdin or stdout is not a terminal, or with --plain, the chat reads
one message per line instead. Commands in that mode:
  /clear    Start over
  /copy     Copy the last reply to the clipboard
  /exit     Quit (Ctrl+D works too)

Examples:
  huddle chat
  huddle chat --model deepseek-coder
  huddle chat --locale ru --plain`

const chatShortDesc string = "Interactive chat with the assistant"

var chatFlags = []string{
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagLocale,
}

type chatCommander struct {
	endpoint string
	model    string
	locale   string
	plain    bool
	debug    bool

	configDir string
	cfg       *config.Config
	completer conversation.Completer
	clipboard conversation.Clipboard
	logger    *zap.Logger
}

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cfg, err := config.Resolve(cmder.configDir, func(v *viper.Viper) {
				config.BindRegisteredFlags(v, cmd, config.Flags, chatFlags)
			})
			if err != nil {
				return err
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			closeLog := cmder.openLogger(cmd.ErrOrStderr())
			defer closeLog()

			in, out := cmd.InOrStdin(), cmd.OutOrStdout()
			if cmder.plain || !cliui.IsTerminal(in) || !cliui.IsTerminal(out) {
				return cmder.runLine(ctx, in, out)
			}
			return cmder.runTUI(ctx)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagLocale, &cmder.locale)
	cmd.Flags().BoolVar(&cmder.plain, "plain", false, "Read one message per line instead of the full screen UI")

	return cmd
}

// openLogger points the logger at the chat log so it never draws over the
// conversation. Without a writable log file, only debug output goes to
// fallback.
func (c *chatCommander) openLogger(fallback io.Writer) func() {
	path, err := dotdir.NewManager().LogPath(c.configDir)
	if err == nil {
		var f *os.File
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err == nil {
			c.logger = logger.NewLoggerWithWriters(c.debug, f)
			return func() {
				_ = c.logger.Sync()
				_ = f.Close()
			}
		}
	}

	if c.debug {
		c.logger = logger.NewLoggerWithWriters(true, fallback)
		c.logger.Debug("chat log unavailable", zap.Error(err))
	} else {
		c.logger = logger.Nop()
	}
	return func() { _ = c.logger.Sync() }
}

// newView builds the conversation backed by the configured completion
// service. onChange may be nil.
func (c *chatCommander) newView(onChange func()) *conversation.View {
	completer := c.completer
	if completer == nil {
		completer = completion.New(c.cfg.CompletionConfig(), c.logger)
	}

	clipboard := c.clipboard
	if clipboard == nil {
		clipboard = conversation.NewSystemClipboard()
	}

	opts := []conversation.Option{
		conversation.WithLogger(c.logger),
		conversation.WithLocale(c.cfg.Chat.Locale),
		conversation.WithClipboard(clipboard),
		conversation.WithCopyReset(c.cfg.Chat.CopyResetDuration()),
	}
	if onChange != nil {
		opts = append(opts, conversation.WithOnChange(onChange))
	}

	c.logger.Info("chat started",
		zap.String("model", c.cfg.Assistant.Model),
		zap.String("locale", c.cfg.Chat.Locale),
	)
	return conversation.New(completer, opts...)
}

func (c *chatCommander) modelName() string {
	if c.cfg.Assistant.Model != "" {
		return c.cfg.Assistant.Model
	}
	return completion.DefaultModel
}
