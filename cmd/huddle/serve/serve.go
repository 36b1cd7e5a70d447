// Package servecmder provides the serve command running the huddle HTTP and
// MCP backend.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/config"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
	"github.com/papercomputeco/huddle/pkg/transcript"
	"github.com/papercomputeco/huddle/server"
)

const serveLongDesc string = `Run the huddle backend.

Serves the chat session API, the stateless completion endpoint, call
transcript ingestion and an MCP endpoint at /mcp on one address. All
state is held in memory.

While running, edits to config.toml are picked up: new sampling
defaults apply to requests and sessions started afterwards.

Examples:
  huddle serve
  huddle serve --listen :9000 --cors-origins https://app.example.com`

const serveShortDesc string = "Run the huddle HTTP and MCP backend"

var serveFlags = []string{
	config.FlagListen,
	config.FlagOrigins,
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagLocale,
}

// defaultsSetter receives reloaded request defaults.
type defaultsSetter interface {
	SetDefaults(opts llm.Options)
}

type serveCommander struct {
	listen   string
	origins  string
	endpoint string
	model    string
	locale   string
	debug    bool

	configDir string
	cfg       *config.Config
	resolve   func() (*config.Config, error)
	logger    *zap.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			cmder.resolve = func() (*config.Config, error) {
				return config.Resolve(cmder.configDir, func(v *viper.Viper) {
					config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
				})
			}

			cfg, err := cmder.resolve()
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
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagOrigins, &cmder.origins)
	config.AddStringFlag(cmd, config.Flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagLocale, &cmder.locale)

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c.cfg.Assistant.APIKey == "" {
		c.logger.Warn("no assistant API key configured, completions will fail",
			zap.String("env", config.EnvPrefix+"_ASSISTANT_API_KEY"),
		)
	}

	srv, err := newServer(c.cfg, c.logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	errChan := make(chan error, 1)

	go func() {
		if err := srv.Run(); err != nil {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	c.watchConfig(ctx, srv)

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return srv.Shutdown()
	case <-ctx.Done():
		return srv.Shutdown()
	}
}

// newServer builds the backend for cfg. The sampling defaults are held only by
// the server, never by the completion client, so a reload can also drop a
// value back to its built-in default.
func newServer(cfg *config.Config, log *zap.Logger) (*server.Server, error) {
	completionCfg := cfg.CompletionConfig()
	completionCfg.Defaults = llm.Options{}
	client := completion.New(completionCfg, log)

	srv, err := server.New(server.Config{
		ListenAddr:  cfg.Server.Listen,
		CORSOrigins: cfg.Server.CORSOrigins,
		Locale:      cfg.Chat.Locale,
	}, client, transcript.NewRegistry(log), log)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	srv.SetDefaults(cfg.Assistant.Options())

	log.Info("assistant configured",
		zap.String("endpoint", client.Endpoint()),
		zap.String("model", cfg.Assistant.Model),
	)
	return srv, nil
}

// watchConfig reloads request defaults whenever config.toml changes. A watcher
// failure is logged and does not stop the server.
func (c *serveCommander) watchConfig(ctx context.Context, srv defaultsSetter) {
	cfger, err := config.NewConfiger(c.configDir)
	if err != nil {
		c.logger.Warn("config reload disabled", zap.Error(err))
		return
	}

	path := cfger.GetTarget()
	if path == "" {
		return
	}

	c.logger.Info("watching config for changes", zap.String("path", path))
	go func() {
		if err := config.Watch(ctx, path, func() { c.reload(srv) }); err != nil {
			c.logger.Warn("config watcher stopped", zap.Error(err))
		}
	}()
}

// reload re-resolves the configuration and hands the new sampling defaults to
// srv. An invalid file leaves the running defaults in place.
func (c *serveCommander) reload(srv defaultsSetter) {
	cfg, err := c.resolve()
	if err != nil {
		c.logger.Warn("ignoring config change", zap.Error(err))
		return
	}

	srv.SetDefaults(cfg.Assistant.Options())
}
