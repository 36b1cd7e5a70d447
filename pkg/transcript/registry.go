package transcript

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry holds the feeds of every call seen so far.
type Registry struct {
	logger *zap.Logger
	now    func() time.Time

	mu    sync.RWMutex
	feeds map[string]*Feed
}

// NewRegistry creates an empty Registry. A nil logger discards output.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger: logger,
		now:    time.Now,
		feeds:  make(map[string]*Feed),
	}
}

// Feed returns the feed for callID, creating it on first use. The id is
// copied before it is stored, so callers may pass strings backed by reused
// buffers.
func (r *Registry) Feed(callID string) *Feed {
	if f, ok := r.Lookup(callID); ok {
		return f
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.feeds[callID]; ok {
		return f
	}
	callID = strings.Clone(callID)
	f := NewFeed(callID)
	f.now = r.now
	r.feeds[callID] = f
	return f
}

// Lookup returns the feed for callID without creating it.
func (r *Registry) Lookup(callID string) (*Feed, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.feeds[callID]
	return f, ok
}

// Ingest applies ev to the feed of callID. Events of unknown type are
// rejected before a feed is created for the call.
func (r *Registry) Ingest(callID string, ev Event) error {
	var (
		appended bool
		err      error
	)
	if ev.Known() {
		appended, err = r.Feed(callID).Apply(ev)
	} else {
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	if err != nil {
		r.logger.Warn("rejected call event",
			zap.String("call_id", callID),
			zap.String("type", ev.Type),
			zap.Error(err),
		)
		return err
	}

	r.logger.Debug("applied call event",
		zap.String("call_id", callID),
		zap.String("type", ev.Type),
		zap.Bool("appended", appended),
	)
	return nil
}

// Calls lists the known call ids in sorted order.
func (r *Registry) Calls() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.feeds))
	for id := range r.feeds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
