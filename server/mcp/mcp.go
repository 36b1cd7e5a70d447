// Package mcp provides an MCP (Model Context Protocol) server that lets
// agents ask the assistant and read call transcripts.
package mcp

import (
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/conversation"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/transcript"
	"github.com/papercomputeco/huddle/pkg/utils"
)

type Config struct {
	// Completer answers ask_assistant
	Completer conversation.Completer

	// Registry backs get_transcript
	Registry *transcript.Registry

	// Defaults returns the request options for ask_assistant. Optional.
	Defaults func() llm.Options

	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates the MCP server with the assistant and transcript tools.
func NewServer(c Config) (*Server, error) {
	if c.Completer == nil {
		return nil, errors.New("completer is required")
	}
	if c.Registry == nil {
		return nil, errors.New("transcript registry is required")
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.Defaults == nil {
		c.Defaults = func() llm.Options { return llm.Options{} }
	}

	s := &Server{config: c}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "huddle",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        askToolName,
		Description: askDescription,
	}, s.handleAsk)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        transcriptToolName,
		Description: transcriptDescription,
	}, s.handleGetTranscript)

	s.mcpServer = mcpServer

	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func toolError(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
