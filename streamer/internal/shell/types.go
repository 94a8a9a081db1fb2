package shell

import (
	"time"

	"github.com/mikhailv/fake-streamer/internal/stream"
)

type EventType string

const (
	EventStarted   EventType = "started"
	EventUpdate    EventType = "update"
	EventCompleted EventType = "completed"
	EventCancelled EventType = "cancelled"
)

var _ stream.CursorAware = (*Event)(nil)

// Event is one entry of the session history.
type Event struct {
	Cursor   stream.Cursor `json:"cursor"`
	Time     time.Time     `json:"time"`
	Type     EventType     `json:"type"`
	StreamID string        `json:"streamId"`
	Text     string        `json:"text,omitempty"`
}

func (e *Event) SetCursor(cursor stream.Cursor) {
	e.Cursor = cursor
}

// State is what a view renders.
type State struct {
	Text      string `json:"text"`
	Streaming bool   `json:"streaming"`
	StreamID  string `json:"streamId,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	// Cursor of the last event reflected in this state.
	Cursor stream.Cursor `json:"cursor"`
}

// Placeholder is shown while there is no text yet.
const Placeholder = "…"

func (s State) DisplayText() string {
	if s.Text == "" {
		return Placeholder
	}
	return s.Text
}

// CanStart reports whether the start control is enabled.
func (s State) CanStart() bool {
	return !s.Streaming
}

// CanCancel reports whether the cancel control is enabled.
func (s State) CanCancel() bool {
	return s.Streaming
}
