// Package event delivers canvas notifications to subscribers.
//
// Events are published synchronously on the caller's goroutine after the
// canvas has released its lock, so a handler may call back into the canvas.
// A panicking handler is recovered and reported through OnError; it never
// reaches the publisher.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

// Type names an event.
type Type string

// Event types.
const (
	NodeAdded           Type = "node.added"
	NodeRemoved         Type = "node.removed"
	NodeContentChanged  Type = "node.content_changed"
	NodePositionChanged Type = "node.position_changed"
	NodeResizePreview   Type = "node.resize_preview"
	NodeResized         Type = "node.resized"
	EdgeAdded           Type = "edge.added"
	EdgeRemoved         Type = "edge.removed"
	EdgeRejected        Type = "edge.rejected"
	DocumentLoaded      Type = "document.loaded"
	DocumentReplaced    Type = "document.replaced"
	SessionCancelled    Type = "session.cancelled"
	CommitSucceeded     Type = "commit.succeeded"
	CommitFailed        Type = "commit.failed"
)

// Event is one notification. Payload holds one of the payload types below,
// matching Type.
type Event struct {
	ID         string
	Type       Type
	DocumentID string
	SessionID  string
	Timestamp  time.Time
	Payload    any
}

// NodePayload accompanies node.added and node.content_changed. For content
// changes Node carries the recomputed size.
type NodePayload struct {
	Node graph.Node
}

// NodeRemovedPayload accompanies node.removed.
type NodeRemovedPayload struct {
	Node  graph.Node
	Edges []graph.Edge
}

// PositionPayload accompanies node.position_changed.
type PositionPayload struct {
	NodeID   string
	Position graph.Position
}

// ResizePayload accompanies node.resize_preview and node.resized.
type ResizePayload struct {
	NodeID string
	Size   graph.Size
	Manual bool
}

// EdgePayload accompanies edge.added and edge.removed.
type EdgePayload struct {
	Edge graph.Edge
}

// EdgeRejectedPayload accompanies edge.rejected.
type EdgeRejectedPayload struct {
	Err *graph.EdgeError
}

// LoadPayload accompanies document.loaded. Fallback is set when the stored
// document was missing or malformed and an empty document was used; Err
// then holds the cause.
type LoadPayload struct {
	Nodes    int
	Edges    int
	Rejected int
	Fallback bool
	Err      error
}

// ReplacePayload accompanies document.replaced.
type ReplacePayload struct {
	Source string
	Nodes  int
	Edges  int
}

// CommitPayload accompanies commit.succeeded and commit.failed. Trigger is
// "autosave" or "manual" so the UI can stay silent or confirm.
type CommitPayload struct {
	Trigger  string
	Bytes    int
	Attempts int
	Err      error
}

// Option configures event creation.
type Option func(*Event)

// WithDocumentID sets the document the event concerns.
func WithDocumentID(id string) Option {
	return func(e *Event) {
		e.DocumentID = id
	}
}

// WithSessionID sets the editing session that produced the event.
func WithSessionID(id string) Option {
	return func(e *Event) {
		e.SessionID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now()).
func WithTimestamp(t time.Time) Option {
	return func(e *Event) {
		e.Timestamp = t
	}
}

// New creates an event with a fresh UUID.
func New(t Type, payload any, opts ...Option) Event {
	e := Event{
		ID:        uuid.New().String(),
		Type:      t,
		Timestamp: time.Now(),
		Payload:   payload,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
