package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/transcript"
)

// TranscriptResponse is the transcript of one call.
type TranscriptResponse struct {
	CallID       string            `json:"call_id"`
	Transcribing bool              `json:"transcribing"`
	Captioning   bool              `json:"captioning"`
	Count        int               `json:"count"`
	Items        []transcript.Item `json:"items"`
}

// EventAccepted acknowledges an ingested call event.
type EventAccepted struct {
	CallID string `json:"call_id"`
	Type   string `json:"type"`
	Count  int    `json:"count"`
}

// handleCallEvent ingests one event pushed by the call provider.
func (s *Server) handleCallEvent(c *fiber.Ctx) error {
	// Params aliases the request buffer; the id outlives the request.
	callID := utils.CopyString(c.Params("id"))

	ev, err := transcript.ParseEvent(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse(err.Error()))
	}

	if err := s.registry.Ingest(callID, ev); err != nil {
		if errors.Is(err, transcript.ErrUnknownEvent) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(llm.NewErrorResponse(err.Error()))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(llm.NewErrorResponse("internal error"))
	}

	return c.Status(fiber.StatusAccepted).JSON(EventAccepted{
		CallID: callID,
		Type:   ev.Type,
		Count:  s.registry.Feed(callID).Len(),
	})
}

func (s *Server) handleGetTranscript(c *fiber.Ctx) error {
	callID := c.Params("id")

	feed, ok := s.registry.Lookup(callID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(llm.NewErrorResponse("call not found"))
	}

	state := feed.State()
	return c.JSON(TranscriptResponse{
		CallID:       state.CallID,
		Transcribing: state.Transcribing,
		Captioning:   state.Captioning,
		Count:        len(state.Items),
		Items:        state.Items,
	})
}
