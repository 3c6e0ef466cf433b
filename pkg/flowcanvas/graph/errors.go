package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for document operations.
var (
	// ErrMalformedDocument indicates persisted JSON failed to parse or
	// failed shape validation.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrInvalidEdgeEndpoint indicates an edge references a missing node,
	// an unknown handle, or a handle of the wrong direction.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrDuplicateEdge indicates the same connection already exists.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNodeNotFound indicates an operation referenced an unknown node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound indicates an operation referenced an unknown edge.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrUnknownKind indicates a kind tag outside the closed set.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrDuplicateNode indicates two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// EdgeError describes a rejected edge.
type EdgeError struct {
	// EdgeID is the id of the rejected edge, if it had one.
	EdgeID string
	// Source and Target are the endpoints as given.
	Source EdgeRef
	Target EdgeRef
	// Reason says which endpoint check failed.
	Reason string
	// Err is ErrInvalidEdgeEndpoint or ErrDuplicateEdge.
	Err error
}

// Error implements the error interface.
func (e *EdgeError) Error() string {
	return fmt.Sprintf("edge %s:%s -> %s:%s: %s: %v",
		e.Source.NodeID, e.Source.HandleID, e.Target.NodeID, e.Target.HandleID, e.Reason, e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *EdgeError) Unwrap() error {
	return e.Err
}
