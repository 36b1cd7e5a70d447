package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/llm"
)

var (
	askToolName    = "ask_assistant"
	askDescription = "Ask the huddle assistant a question. Optionally pass earlier turns of the conversation as history so the assistant can answer in context. Returns the assistant's answer as text."
)

// AskInput represents the input arguments for the ask_assistant tool.
type AskInput struct {
	Question string        `json:"question" jsonschema:"the question to ask the assistant"`
	History  []HistoryTurn `json:"history,omitempty" jsonschema:"earlier turns of the conversation, oldest first"`
}

// HistoryTurn is one earlier turn passed to ask_assistant.
type HistoryTurn struct {
	Role    string `json:"role" jsonschema:"one of system, user or assistant"`
	Content string `json:"content" jsonschema:"the text of the turn"`
}

// AskOutput is the structured result of ask_assistant.
type AskOutput struct {
	Answer string `json:"answer"`
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(input.Question) == "" {
		return toolError("question is required"), AskOutput{}, nil
	}

	history := make([]llm.Message, 0, len(input.History)+1)
	for _, t := range input.History {
		role := llm.Role(t.Role)
		if !role.Valid() {
			return toolError(fmt.Sprintf("invalid history role %q", t.Role)), AskOutput{}, nil
		}
		history = append(history, llm.NewMessage(role, t.Content))
	}
	history = append(history, llm.NewMessage(llm.RoleUser, input.Question))

	answer, err := s.config.Completer.SendCompletion(ctx, history, s.config.Defaults())
	if err != nil {
		s.config.Logger.Warn("ask_assistant failed", zap.Error(err))
		return toolError(fmt.Sprintf("Assistant request failed: %v", err)), AskOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: answer},
		},
	}, AskOutput{Answer: answer}, nil
}
