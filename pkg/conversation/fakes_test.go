package conversation_test

import (
	"context"
	"sync"

	"github.com/papercomputeco/huddle/pkg/llm"
)

// fakeCompleter records every call. When gate is non-nil each call blocks
// until the gate is closed.
type fakeCompleter struct {
	mu    sync.Mutex
	calls [][]llm.Message
	opts  []llm.Options
	gate  chan struct{}
	reply string
	err   error
}

func (f *fakeCompleter) SendCompletion(_ context.Context, history []llm.Message, opts llm.Options) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, history)
	f.opts = append(f.opts, opts)
	gate, reply, err := f.gate, f.reply, f.err
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return reply, err
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCompleter) lastCall() []llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func (f *fakeCompleter) set(reply string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reply, f.err = reply, err
}

type fakeClipboard struct {
	mu     sync.Mutex
	writes []string
	err    error
	gate   chan struct{}
}

func (f *fakeClipboard) WriteText(text string) error {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.writes = append(f.writes, text)
	return nil
}

func (f *fakeClipboard) written() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}
