// Package store persists canvas documents as opaque JSON blobs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

// Store persists documents by id.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a document, overwriting any previous version.
	Save(ctx context.Context, id string, data []byte) error

	// Load retrieves a document.
	// Returns ErrNotFound if the document doesn't exist.
	Load(ctx context.Context, id string) ([]byte, error)

	// List returns metadata for all documents, ordered by id.
	// Returns empty slice (not error) if the store is empty.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a document.
	// Returns nil if the document doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the document.
type Info struct {
	ID        string
	Revision  int
	UpdatedAt time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a document doesn't exist.
	ErrNotFound = errors.New("document not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("document store closed")

	// ErrUnknownDriver indicates Open was given an unregistered driver.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// LoadDocument loads and decodes a document. Edges that fail validation
// are dropped from the document and returned separately.
func LoadDocument(ctx context.Context, s Store, id string) (*graph.Document, []*graph.EdgeError, error) {
	data, err := s.Load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	doc, rejected, err := graph.Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", id, err)
	}
	return doc, rejected, nil
}

// SaveDocument encodes and stores a complete document. It returns the
// number of bytes written.
func SaveDocument(ctx context.Context, s Store, id string, doc *graph.Document) (int, error) {
	data, err := graph.Encode(doc)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", id, err)
	}
	if err := s.Save(ctx, id, data); err != nil {
		return 0, err
	}
	return len(data), nil
}
