package transcript

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// UnknownParticipant names a speaker the provider sent without a user.
const UnknownParticipant = "Unknown"

// Item is one line of a transcript.
type Item struct {
	ID              string    `json:"id"`
	ParticipantID   string    `json:"participant_id"`
	ParticipantName string    `json:"participant_name"`
	Text            string    `json:"text"`
	Timestamp       time.Time `json:"timestamp"`
}

// State is a point-in-time copy of a feed.
type State struct {
	CallID       string `json:"call_id"`
	Transcribing bool   `json:"transcribing"`
	Captioning   bool   `json:"captioning"`
	Items        []Item `json:"items"`
}

// Feed is the transcript of a single call.
type Feed struct {
	callID string
	now    func() time.Time

	mu           sync.RWMutex
	items        []Item
	transcribing bool
	captioning   bool
}

// NewFeed creates an empty feed for callID.
func NewFeed(callID string) *Feed {
	return &Feed{callID: callID, now: time.Now}
}

func (f *Feed) CallID() string {
	return f.callID
}

// Apply folds ev into the feed. It reports whether a transcript item was
// appended. Captions with blank text are dropped.
func (f *Feed) Apply(ev Event) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch ev.Type {
	case EventClosedCaption:
		return f.appendCaption(ev.ClosedCaption), nil
	case EventTranscriptionStarted:
		f.transcribing = true
	case EventTranscriptionStopped:
		f.transcribing = false
	case EventClosedCaptionsStarted:
		f.captioning = true
	case EventClosedCaptionsStopped:
		f.captioning = false
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return false, nil
}

// appendCaption must be called with f.mu held.
func (f *Feed) appendCaption(cc *ClosedCaption) bool {
	if cc == nil {
		return false
	}
	text := strings.TrimSpace(cc.Text)
	if text == "" {
		return false
	}

	now := f.now()
	f.items = append(f.items, Item{
		ID:              fmt.Sprintf("%s-%s-%d", cc.SpeakerID, cc.StartTime, now.UnixNano()),
		ParticipantID:   cc.SpeakerID,
		ParticipantName: participantName(cc.User),
		Text:            text,
		Timestamp:       now,
	})
	return true
}

func participantName(u *User) string {
	switch {
	case u == nil:
		return UnknownParticipant
	case u.Name != "":
		return u.Name
	case u.ID != "":
		return u.ID
	default:
		return UnknownParticipant
	}
}

// Items returns a copy of the transcript in arrival order.
func (f *Feed) Items() []Item {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// State returns the whole feed under a single lock.
func (f *Feed) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()

	items := make([]Item, len(f.items))
	copy(items, f.items)
	return State{
		CallID:       f.callID,
		Transcribing: f.transcribing,
		Captioning:   f.captioning,
		Items:        items,
	}
}

// Text renders the transcript as "name: text" lines, the form handed to the
// assistant when it is asked about a call.
func (f *Feed) Text() string {
	var b strings.Builder
	for _, item := range f.Items() {
		fmt.Fprintf(&b, "[%s] %s: %s\n", FormatClock(item.Timestamp), item.ParticipantName, item.Text)
	}
	return b.String()
}

// FormatClock renders t as HH:MM:SS in local time.
func FormatClock(t time.Time) string {
	return t.Local().Format(time.TimeOnly)
}
