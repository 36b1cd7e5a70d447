package server

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/conversation"
	"github.com/papercomputeco/huddle/pkg/llm"
)

// sessionStore owns the conversation views of the browser sessions.
type sessionStore struct {
	mu    sync.RWMutex
	views map[string]*conversation.View
}

func newSessionStore() *sessionStore {
	return &sessionStore{views: make(map[string]*conversation.View)}
}

func (st *sessionStore) add(id string, v *conversation.View) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.views[id] = v
}

func (st *sessionStore) get(id string) (*conversation.View, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	v, ok := st.views[id]
	return v, ok
}

func (st *sessionStore) remove(id string) (*conversation.View, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	v, ok := st.views[id]
	delete(st.views, id)
	return v, ok
}

func (st *sessionStore) closeAll() {
	st.mu.Lock()
	defer st.mu.Unlock()
	for id, v := range st.views {
		v.Close()
		delete(st.views, id)
	}
}

// SessionResponse is the state of a chat session.
type SessionResponse struct {
	ID string `json:"id"`
	conversation.Snapshot
}

// CreateSessionRequest optionally overrides the server locale and options.
type CreateSessionRequest struct {
	Locale  string      `json:"locale,omitempty"`
	Options llm.Options `json:"options"`
}

// SubmitRequest carries the user's message.
type SubmitRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse("invalid request body"))
		}
	}

	locale := req.Locale
	if locale == "" {
		locale = s.config.Locale
	}

	id := uuid.NewString()
	view := conversation.New(s.completer,
		conversation.WithOptions(req.Options.Merge(s.Defaults())),
		conversation.WithLocale(locale),
		conversation.WithLogger(s.logger.With(zap.String("session_id", id))),
	)
	s.sessions.add(id, view)

	s.logger.Debug("session created", zap.String("session_id", id), zap.String("locale", locale))

	return c.Status(fiber.StatusCreated).JSON(SessionResponse{ID: id, Snapshot: view.Snapshot()})
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	id := c.Params("id")
	view, ok := s.sessions.get(id)
	if !ok {
		return sessionNotFound(c)
	}
	return c.JSON(SessionResponse{ID: id, Snapshot: view.Snapshot()})
}

func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	id := c.Params("id")
	view, ok := s.sessions.remove(id)
	if !ok {
		return sessionNotFound(c)
	}
	view.Close()

	s.logger.Debug("session closed", zap.String("session_id", id))

	return c.SendStatus(fiber.StatusNoContent)
}

// handleSubmit starts a completion for the session and answers immediately;
// clients poll the session for the settled turn.
func (s *Server) handleSubmit(c *fiber.Ctx) error {
	id := c.Params("id")
	view, ok := s.sessions.get(id)
	if !ok {
		return sessionNotFound(c)
	}

	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse("invalid request body"))
	}

	// The request context ends with the response; the completion must not.
	_, err := view.Submit(context.Background(), req.Text)
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		return c.Status(fiber.StatusBadRequest).JSON(llm.NewErrorResponse(err.Error()))
	case errors.Is(err, conversation.ErrRequestInFlight):
		return c.Status(fiber.StatusConflict).JSON(llm.NewErrorResponse(err.Error()))
	case errors.Is(err, conversation.ErrClosed):
		return sessionNotFound(c)
	case err != nil:
		s.logger.Error("submit failed", zap.String("session_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(llm.NewErrorResponse("internal error"))
	}

	return c.Status(fiber.StatusAccepted).JSON(SessionResponse{ID: id, Snapshot: view.Snapshot()})
}

func (s *Server) handleClear(c *fiber.Ctx) error {
	id := c.Params("id")
	view, ok := s.sessions.get(id)
	if !ok {
		return sessionNotFound(c)
	}
	view.Clear()
	return c.JSON(SessionResponse{ID: id, Snapshot: view.Snapshot()})
}

func (s *Server) handleDismissBanner(c *fiber.Ctx) error {
	id := c.Params("id")
	view, ok := s.sessions.get(id)
	if !ok {
		return sessionNotFound(c)
	}
	view.DismissBanner()
	return c.JSON(SessionResponse{ID: id, Snapshot: view.Snapshot()})
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(llm.NewErrorResponse("session not found"))
}
