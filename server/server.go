// Package server exposes the assistant, chat sessions and call transcripts
// over HTTP for the browser chat widget and meeting room.
package server

import (
	"net"
	"sync/atomic"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/conversation"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/transcript"
	"github.com/papercomputeco/huddle/server/mcp"
)

// Server is the huddle HTTP backend. It keeps chat sessions and transcripts in
// memory only; nothing survives a restart.
type Server struct {
	config    Config
	completer conversation.Completer
	registry  *transcript.Registry
	sessions  *sessionStore
	logger    *zap.Logger
	app       *fiber.App

	// defaults are request options layered under every caller's options.
	// They are swapped on config reload.
	defaults atomic.Pointer[llm.Options]
}

// New creates a new Server. completer answers chat requests and registry
// receives call events.
func New(config Config, completer conversation.Completer, registry *transcript.Registry, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = transcript.NewRegistry(logger)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s := &Server{
		config:    config,
		completer: completer,
		registry:  registry,
		sessions:  newSessionStore(),
		logger:    logger,
		app:       app,
	}
	s.defaults.Store(&llm.Options{})

	mcpServer, err := mcp.NewServer(mcp.Config{
		Completer: completer,
		Registry:  registry,
		Defaults:  s.Defaults,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	origins := config.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	// Stateless completion
	app.Post("/api/complete", s.handleComplete)

	// Chat sessions
	app.Post("/api/sessions", s.handleCreateSession)
	app.Get("/api/sessions/:id", s.handleGetSession)
	app.Delete("/api/sessions/:id", s.handleDeleteSession)
	app.Post("/api/sessions/:id/messages", s.handleSubmit)
	app.Delete("/api/sessions/:id/messages", s.handleClear)
	app.Delete("/api/sessions/:id/banner", s.handleDismissBanner)

	// Call transcripts
	app.Post("/api/calls/:id/events", s.handleCallEvent)
	app.Get("/api/calls/:id/transcript", s.handleGetTranscript)

	// MCP
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Defaults returns the request options applied under every caller's options.
func (s *Server) Defaults() llm.Options {
	return *s.defaults.Load()
}

// SetDefaults replaces the request options used by requests and sessions
// started from now on.
func (s *Server) SetDefaults(opts llm.Options) {
	s.defaults.Store(&opts)
	s.logger.Info("request defaults updated", zap.String("model", opts.Model))
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting huddle server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting huddle server",
		zap.String("listen", ln.Addr().String()),
	)
	return s.app.Listener(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Close tears down every chat session. Requests still in flight are
// abandoned and their results ignored.
func (s *Server) Close() error {
	s.sessions.closeAll()
	return nil
}

// errorHandler renders fiber errors (unknown routes, bad methods) in the same
// envelope as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(llm.NewErrorResponse(err.Error()))
}
