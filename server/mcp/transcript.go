package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/huddle/pkg/transcript"
)

var (
	transcriptToolName    = "get_transcript"
	transcriptDescription = "Get the live caption transcript of a video call by its call id. Returns every recognized utterance in order with the speaker's name and time, plus whether transcription and captions are currently running."
)

// TranscriptInput represents the input arguments for the get_transcript tool.
type TranscriptInput struct {
	CallID string `json:"call_id" jsonschema:"the id of the call whose transcript to fetch"`
}

// TranscriptOutput is the structured result of get_transcript.
type TranscriptOutput struct {
	CallID       string            `json:"call_id"`
	Transcribing bool              `json:"transcribing"`
	Captioning   bool              `json:"captioning"`
	Items        []transcript.Item `json:"items"`
}

func (s *Server) handleGetTranscript(_ context.Context, _ *mcp.CallToolRequest, input TranscriptInput) (*mcp.CallToolResult, TranscriptOutput, error) {
	if input.CallID == "" {
		return toolError("call_id is required"), TranscriptOutput{}, nil
	}

	feed, ok := s.config.Registry.Lookup(input.CallID)
	if !ok {
		return toolError(fmt.Sprintf("no transcript for call %q", input.CallID)), TranscriptOutput{}, nil
	}

	state := feed.State()
	output := TranscriptOutput{
		CallID:       state.CallID,
		Transcribing: state.Transcribing,
		Captioning:   state.Captioning,
		Items:        state.Items,
	}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		return toolError(fmt.Sprintf("Failed to serialize transcript: %v", err)), TranscriptOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
