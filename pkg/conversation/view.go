// Package conversation holds the state of one chat with the assistant: the
// ordered turns as displayed, a single in-flight request, a diagnostic banner
// and the transient "copied" marker.
//
// All methods are safe for concurrent use. The only blocking work, the
// completion round trip and the clipboard write, runs on background
// goroutines so callers driving a UI loop never wait on the network.
package conversation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/huddle/pkg/llm"
)

var (
	ErrEmptyInput      = errors.New("input is empty")
	ErrRequestInFlight = errors.New("a request is already in flight")
	ErrClosed          = errors.New("conversation is closed")
	ErrTurnNotFound    = errors.New("turn not found")
	ErrTurnPending     = errors.New("turn is still pending")
	ErrNoClipboard     = errors.New("no clipboard available")
)

// Completer sends a history to the assistant and returns its reply.
type Completer interface {
	SendCompletion(ctx context.Context, history []llm.Message, opts llm.Options) (string, error)
}

// View is a single conversation with at most one outstanding request.
type View struct {
	completer Completer
	opts      llm.Options
	clipboard Clipboard
	logger    *zap.Logger
	copyReset time.Duration
	messages  Messages
	onChange  func()
	now       func() time.Time

	mu        sync.Mutex
	turns     []DisplayTurn
	banner    string
	inFlight  bool
	closed    bool
	copiedID  string
	copyGen   uint64
	copyTimer *time.Timer
}

// New creates an empty View backed by completer.
func New(completer Completer, opts ...Option) *View {
	v := &View{
		completer: completer,
		logger:    zap.NewNop(),
		copyReset: DefaultCopyReset,
		messages:  Catalog(DefaultLocale),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Messages returns the localized strings the view was created with.
func (v *View) Messages() Messages {
	return v.messages
}

// Submit appends the user's text and a pending assistant turn, then starts the
// completion request in the background. The returned channel is closed once
// the request has settled and its result has been applied or discarded.
//
// Blank text is rejected with ErrEmptyInput and a second submission while a
// request is outstanding with ErrRequestInFlight. Neither changes any state.
func (v *View) Submit(ctx context.Context, text string) (<-chan struct{}, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil, ErrClosed
	}
	if v.inFlight {
		v.mu.Unlock()
		return nil, ErrRequestInFlight
	}

	// Only settled turns go back to the model, followed by the new input.
	history := make([]llm.Message, 0, len(v.turns)+1)
	for _, t := range v.turns {
		if t.Settled() {
			history = append(history, t.Message())
		}
	}
	history = append(history, llm.NewMessage(llm.RoleUser, text))

	now := v.now()
	user := newTurn(llm.RoleUser, text, now)
	pending := newTurn(llm.RoleAssistant, "", now)
	pending.Pending = true

	v.turns = append(v.turns, user, pending)
	v.inFlight = true
	v.banner = ""
	v.mu.Unlock()

	v.logger.Debug("submitting turn",
		zap.String("turn_id", pending.ID),
		zap.Int("history_len", len(history)),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		reply, err := v.completer.SendCompletion(ctx, history, v.opts)
		v.settle(pending.ID, reply, err)
	}()

	return done, nil
}

// settle applies a finished request to its pending turn. The turn may be gone
// after Clear, and the view may be closed; in both cases the result is dropped.
func (v *View) settle(id, reply string, err error) {
	v.mu.Lock()
	v.inFlight = false
	if v.closed {
		v.mu.Unlock()
		v.logger.Debug("dropping settlement for closed conversation", zap.String("turn_id", id))
		return
	}

	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		v.logger.Debug("dropping settlement for cleared turn", zap.String("turn_id", id))
		v.notify()
		return
	}

	turn := &v.turns[idx]
	turn.Pending = false
	if err != nil {
		turn.Content = v.messages.Failure
		turn.Failed = true
		v.banner = err.Error()
	} else {
		turn.Content = reply
	}
	v.mu.Unlock()

	if err != nil {
		v.logger.Warn("completion failed", zap.String("turn_id", id), zap.Error(err))
	} else {
		v.logger.Debug("completion settled", zap.String("turn_id", id), zap.Int("reply_len", len(reply)))
	}
	v.notify()
}

// Clear removes every turn, pending and failed ones included, and the banner.
// A request still in flight keeps the view busy until it settles, and its
// result is then discarded.
func (v *View) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.turns = nil
	v.banner = ""
}

// Close tears the view down. The copy timer is stopped and the result of any
// outstanding request is ignored.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.closed = true
	v.stopCopyTimer()
	v.copiedID = ""
}

// Copy writes the content of turn id to the clipboard in the background. On
// success the turn is marked as copied until the copy-reset duration elapses
// or another copy replaces it.
func (v *View) Copy(id string) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	idx := v.indexOf(id)
	if idx < 0 {
		v.mu.Unlock()
		return ErrTurnNotFound
	}
	turn := v.turns[idx]
	v.mu.Unlock()

	if turn.Pending {
		return ErrTurnPending
	}
	if v.clipboard == nil {
		return ErrNoClipboard
	}

	go func() {
		if err := v.clipboard.WriteText(turn.Content); err != nil {
			v.logger.Warn("clipboard write failed", zap.String("turn_id", id), zap.Error(err))
			return
		}
		v.markCopied(id)
	}()

	return nil
}

func (v *View) markCopied(id string) {
	v.mu.Lock()
	// Clear may have removed the turn while the clipboard write ran.
	if v.closed || v.indexOf(id) < 0 {
		v.mu.Unlock()
		return
	}

	v.stopCopyTimer()
	v.copyGen++
	gen := v.copyGen
	v.copiedID = id
	v.copyTimer = time.AfterFunc(v.copyReset, func() {
		v.mu.Lock()
		// A newer copy or Close may have won the race against Stop.
		if v.closed || v.copyGen != gen {
			v.mu.Unlock()
			return
		}
		v.copiedID = ""
		v.copyTimer = nil
		v.mu.Unlock()
		v.notify()
	})
	v.mu.Unlock()

	v.notify()
}

// stopCopyTimer must be called with v.mu held.
func (v *View) stopCopyTimer() {
	if v.copyTimer != nil {
		v.copyTimer.Stop()
		v.copyTimer = nil
	}
	v.copyGen++
}

// Turns returns a copy of the turns in insertion order.
func (v *View) Turns() []DisplayTurn {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]DisplayTurn, len(v.turns))
	copy(out, v.turns)
	return out
}

// Turn returns the turn with the given id.
func (v *View) Turn(id string) (DisplayTurn, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.indexOf(id)
	if idx < 0 {
		return DisplayTurn{}, false
	}
	return v.turns[idx], true
}

// LastReply returns the most recent settled assistant turn.
func (v *View) LastReply() (DisplayTurn, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := len(v.turns) - 1; i >= 0; i-- {
		t := v.turns[i]
		if t.Role == llm.RoleAssistant && !t.Pending {
			return t, true
		}
	}
	return DisplayTurn{}, false
}

// Banner returns the technical message of the last failure, if any.
func (v *View) Banner() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.banner
}

func (v *View) DismissBanner() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.banner = ""
}

// InFlight reports whether a request is outstanding.
func (v *View) InFlight() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inFlight
}

// CopiedID returns the id of the turn currently marked as copied.
func (v *View) CopiedID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.copiedID
}

// Snapshot returns the whole view state under a single lock.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	turns := make([]DisplayTurn, len(v.turns))
	copy(turns, v.turns)
	return Snapshot{
		Turns:    turns,
		Banner:   v.banner,
		InFlight: v.inFlight,
		CopiedID: v.copiedID,
	}
}

// indexOf must be called with v.mu held.
func (v *View) indexOf(id string) int {
	for i := range v.turns {
		if v.turns[i].ID == id {
			return i
		}
	}
	return -1
}

func (v *View) notify() {
	if v.onChange != nil {
		v.onChange()
	}
}
