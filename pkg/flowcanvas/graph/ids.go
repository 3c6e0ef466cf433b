package graph

import (
	"fmt"
	"sync"
)

// Sequence hands out node ids of the form "<kind>-<n>". The counter only
// moves forward, and ids already present in the document are skipped, so
// ids never repeat within a session even after edits are discarded.
//
// Clones of a document share their Sequence.
type Sequence struct {
	mu   sync.Mutex
	next int
}

// NewSequence creates a sequence starting at 1.
func NewSequence() *Sequence {
	return &Sequence{next: 1}
}

// Next returns the first unused id for kind.
func (s *Sequence) Next(kind Kind, taken func(id string) bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		id := fmt.Sprintf("%s-%d", kind, s.next)
		s.next++
		if taken == nil || !taken(id) {
			return id
		}
	}
}
