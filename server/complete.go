package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/completion"
	"github.com/papercomputeco/huddle/pkg/llm"
)

// CompleteRequest is a stateless completion request. The caller owns the
// history; it is truncated and given a system turn like any other request.
type CompleteRequest struct {
	Messages []llm.Message `json:"messages"`
	Options  llm.Options   `json:"options"`
}

// CompleteResponse carries the assistant's reply.
type CompleteResponse struct {
	Content string `json:"content"`
}

func (s *Server) handleComplete(c *fiber.Ctx) error {
	startTime := time.Now()

	var req CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		s.logger.Debug("failed to parse request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse("invalid request body"))
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse("messages are required"))
	}
	for _, m := range req.Messages {
		if !m.Role.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse("invalid role: " + string(m.Role)))
		}
	}

	s.logger.Debug("received completion request",
		zap.Int("message_count", len(req.Messages)),
		zap.String("model", req.Options.Model),
	)

	content, err := s.completer.SendCompletion(c.UserContext(), req.Messages, req.Options.Merge(s.Defaults()))
	if err != nil {
		status, msg := completionFailure(err)
		s.logger.Warn("completion failed",
			zap.Int("status", status),
			zap.Error(err),
		)
		return c.Status(status).JSON(llm.NewErrorResponse(msg))
	}

	s.logger.Debug("completion succeeded",
		zap.Int("content_len", len(content)),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(CompleteResponse{Content: content})
}

// completionFailure maps a composer error to the HTTP status and message
// returned to the caller.
func completionFailure(err error) (int, string) {
	var apiErr *completion.APIError
	switch {
	case errors.Is(err, completion.ErrMissingAPIKey):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.As(err, &apiErr):
		return fiber.StatusBadGateway, apiErr.Message
	case errors.Is(err, completion.ErrMalformedResponse):
		return fiber.StatusBadGateway, err.Error()
	default:
		return fiber.StatusBadGateway, "upstream request failed"
	}
}
