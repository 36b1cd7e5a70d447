// Package transcript collects live caption events from a video call into an
// append-only, per-call transcript.
package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event types pushed by the call provider.
const (
	EventClosedCaption         = "call.closed_caption"
	EventTranscriptionStarted  = "call.transcription_started"
	EventTranscriptionStopped  = "call.transcription_stopped"
	EventClosedCaptionsStarted = "call.closed_captions_started"
	EventClosedCaptionsStopped = "call.closed_captions_stopped"
)

var (
	ErrInvalidEvent = errors.New("invalid event")
	ErrUnknownEvent = errors.New("unknown event type")
)

// Event is a call event as delivered by the provider's webhook.
type Event struct {
	Type          string         `json:"type"`
	CallCID       string         `json:"call_cid,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	ClosedCaption *ClosedCaption `json:"closed_caption,omitempty"`
}

// ClosedCaption is one recognized utterance.
type ClosedCaption struct {
	Text      string `json:"text"`
	SpeakerID string `json:"speaker_id"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
	User      *User  `json:"user,omitempty"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Known reports whether the event type is one a Feed understands.
func (ev Event) Known() bool {
	switch ev.Type {
	case EventClosedCaption,
		EventTranscriptionStarted,
		EventTranscriptionStopped,
		EventClosedCaptionsStarted,
		EventClosedCaptionsStopped:
		return true
	}
	return false
}

// ParseEvent decodes a webhook body. The type field is required.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrInvalidEvent)
	}
	return ev, nil
}
