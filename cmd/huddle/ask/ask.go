// Package askcmder provides the ask command for one-shot questions to the
// assistant.
package askcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/cliui"
	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/config"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
)

const askLongDesc string = `Ask the assistant a single question and print the answer.

The question is taken from the arguments, or read from stdin when no
arguments are given. Answers are rendered as markdown when stdout is a
terminal; use --raw to print the reply as received.

Examples:
  huddle ask "what is a closed caption?"
  git diff | huddle ask --model deepseek-coder
  huddle ask --raw "summarise RFC 2119" > summary.md`

const askShortDesc string = "Ask the assistant a single question"

type askCommander struct {
	endpoint string
	model    string
	raw      bool
	debug    bool

	cfg    *config.Config
	logger *zap.Logger
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: askShortDesc,
		Long:  askLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := config.Resolve(configDir, func(v *viper.Viper) {
				config.BindRegisteredFlags(v, cmd, config.Flags, []string{
					config.FlagEndpoint,
					config.FlagModel,
				})
			})
			if err != nil {
				return err
			}
			cmder.cfg = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			question, err := readQuestion(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx, cmd, question)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	cmd.Flags().BoolVar(&cmder.raw, "raw", false, "Print the reply without markdown rendering")

	return cmd
}

func (c *askCommander) run(ctx context.Context, cmd *cobra.Command, question string) error {
	c.logger = logger.NewLoggerWithWriters(c.debug, cmd.ErrOrStderr())
	defer func() { _ = c.logger.Sync() }()

	client := completion.New(c.cfg.CompletionConfig(), c.logger)
	history := []llm.Message{llm.NewMessage(llm.RoleUser, question)}

	var (
		reply string
		err   error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		reply, err = client.SendCompletion(ctx, history, llm.Options{})
	}()

	if cliui.IsTerminal(cmd.ErrOrStderr()) {
		cliui.Wait(cmd.ErrOrStderr(), "Thinking...", done)
	} else {
		<-done
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !c.raw && cliui.IsTerminal(out) {
		rendered, renderErr := cliui.RenderMarkdown(reply, cliui.Width(out, 80))
		if renderErr != nil {
			c.logger.Debug("markdown rendering failed", zap.Error(renderErr))
		}
		fmt.Fprint(out, rendered)
		return nil
	}

	fmt.Fprintln(out, reply)
	return nil
}

func readQuestion(args []string, stdin io.Reader) (string, error) {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" && stdin != nil && !cliui.IsTerminal(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading question from stdin: %w", err)
		}
		question = strings.TrimSpace(string(data))
	}
	if question == "" {
		return "", errors.New("no question given")
	}
	return question, nil
}
