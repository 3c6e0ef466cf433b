package flowcanvas

import (
	"errors"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/autosave"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

// Errors surfaced by a Canvas. They are the package errors of the
// components, re-exported so callers need only this package for errors.Is.
var (
	// ErrMalformedDocument indicates the stored document could not be
	// decoded. Open recovers with an empty document.
	ErrMalformedDocument = graph.ErrMalformedDocument

	// ErrInvalidEdgeEndpoint indicates an edge referenced a missing node or
	// handle. The edge is rejected and the rest of the document kept.
	ErrInvalidEdgeEndpoint = graph.ErrInvalidEdgeEndpoint

	// ErrDuplicateEdge indicates the connection already exists.
	ErrDuplicateEdge = graph.ErrDuplicateEdge

	// ErrNodeNotFound indicates an operation referenced an unknown node.
	ErrNodeNotFound = graph.ErrNodeNotFound

	// ErrUnknownKind indicates a dropped tag named no node kind.
	ErrUnknownKind = graph.ErrUnknownKind

	// ErrCommitFailed indicates persistence failed. The canvas stays dirty.
	ErrCommitFailed = autosave.ErrCommitFailed

	// ErrMergeRejected indicates a suggestion was empty or malformed. The
	// document is untouched.
	ErrMergeRejected = suggest.ErrMergeRejected
)

// Errors specific to Canvas.
var (
	// ErrNoSuggester indicates Suggest was called without WithSuggester.
	ErrNoSuggester = errors.New("no suggestion service configured")

	// ErrStoreRequired indicates Open was called with a nil store.
	ErrStoreRequired = errors.New("store is required")
)
