package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/registry"
)

// MemoryStore is an in-memory document store for tests and the CLI's
// scratch mode. Data is lost when the process exits.
type MemoryStore struct {
	docs   *registry.Registry[string, storedDocument]
	saves  atomic.Int64
	closed atomic.Bool
}

type storedDocument struct {
	data      []byte
	revision  int
	updatedAt time.Time
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: registry.New[string, storedDocument]()}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, id string, data []byte) error {
	if err := m.check(ctx); err != nil {
		return err
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	m.docs.Update(id, func(old storedDocument, _ bool) storedDocument {
		return storedDocument{data: stored, revision: old.revision + 1, updatedAt: time.Now().UTC()}
	})
	m.saves.Add(1)
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(ctx context.Context, id string) ([]byte, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	doc, ok := m.docs.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	result := make([]byte, len(doc.data))
	copy(result, doc.data)
	return result, nil
}

// List implements Store.
func (m *MemoryStore) List(ctx context.Context) ([]Info, error) {
	if err := m.check(ctx); err != nil {
		return nil, err
	}
	var infos []Info
	m.docs.Range(func(id string, doc storedDocument) bool {
		infos = append(infos, Info{
			ID:        id,
			Revision:  doc.revision,
			UpdatedAt: doc.updatedAt,
			Size:      int64(len(doc.data)),
		})
		return true
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := m.check(ctx); err != nil {
		return err
	}
	m.docs.Delete(id)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.docs.Clear()
	}
	return nil
}

// Len returns the number of stored documents.
func (m *MemoryStore) Len() int {
	return m.docs.Len()
}

// Saves returns the number of successful Save calls. Useful for testing.
func (m *MemoryStore) Saves() int {
	return int(m.saves.Load())
}

func (m *MemoryStore) check(ctx context.Context) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}
