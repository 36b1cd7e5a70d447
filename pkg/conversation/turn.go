package conversation

import (
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/huddle/pkg/llm"
)

// DisplayTurn is a turn as shown to the user. Pending and Failed are never
// both set: a pending assistant turn settles exactly once into either a
// resolved or a failed turn.
type DisplayTurn struct {
	ID        string    `json:"id"`
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	Pending   bool      `json:"pending,omitempty"`
	Failed    bool      `json:"failed,omitempty"`
}

// Settled reports whether the turn may be sent back to the model as context.
func (t DisplayTurn) Settled() bool {
	return !t.Pending && !t.Failed
}

// Message strips the display metadata from the turn.
func (t DisplayTurn) Message() llm.Message {
	return llm.NewMessage(t.Role, t.Content)
}

func newTurn(role llm.Role, content string, createdAt time.Time) DisplayTurn {
	return DisplayTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		CreatedAt: createdAt,
	}
}

// Snapshot is a point-in-time copy of a view's state.
type Snapshot struct {
	Turns    []DisplayTurn `json:"turns"`
	Banner   string        `json:"banner,omitempty"`
	InFlight bool          `json:"in_flight"`
	CopiedID string        `json:"copied_id,omitempty"`
}
