package chatcmder

import (
	"context"
	"sync"

	"github.com/papercomputeco/huddle/pkg/config"
	"github.com/papercomputeco/huddle/pkg/llm"
	"github.com/papercomputeco/huddle/pkg/logger"
)

type scriptedCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	history [][]llm.Message
}

func (s *scriptedCompleter) SendCompletion(_ context.Context, history []llm.Message, _ llm.Options) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, history)
	return s.reply, s.err
}

func (s *scriptedCompleter) calls() [][]llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]llm.Message(nil), s.history...)
}

type memClipboard struct {
	mu   sync.Mutex
	text string
}

func (m *memClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *memClipboard) contents() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func newTestCommander(completer *scriptedCompleter, clipboard *memClipboard) *chatCommander {
	return &chatCommander{
		cfg:       config.NewDefaultConfig(),
		completer: completer,
		clipboard: clipboard,
		logger:    logger.Nop(),
	}
}
