// Package session tracks the working and committed copies of a document.
//
// Dirty state is derived by comparing the two copies, never by counting
// mutations: editing a value and then restoring it leaves the session
// clean.
package session

import "github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"

// Tracker holds the snapshot pair of one editing session.
//
// Tracker is not safe for concurrent use; callers serialize access.
type Tracker struct {
	working   *graph.Document
	committed *graph.Document
	editing   bool
}

// NewTracker starts a clean session on doc. A nil doc starts from an empty
// document.
func NewTracker(doc *graph.Document) *Tracker {
	if doc == nil {
		doc = graph.NewDocument()
	}
	return &Tracker{working: doc, committed: doc.Clone()}
}

// Working returns the document being edited. Mutations made through it are
// what Dirty compares.
func (t *Tracker) Working() *graph.Document {
	return t.working
}

// Committed returns the last committed snapshot. Callers must not mutate
// it.
func (t *Tracker) Committed() *graph.Document {
	return t.committed
}

// Snapshot returns an independent copy of the working document, suitable
// for handing to a persistence commit.
func (t *Tracker) Snapshot() *graph.Document {
	return t.working.Clone()
}

// Editing reports whether the session is in editing mode.
func (t *Tracker) Editing() bool {
	return t.editing
}

// Dirty reports whether the working document differs from the committed
// snapshot.
func (t *Tracker) Dirty() bool {
	return !t.working.Equal(t.committed)
}

// StartEditing enters editing mode. It reports false when already editing.
func (t *Tracker) StartEditing() bool {
	if t.editing {
		return false
	}
	t.editing = true
	return true
}

// CancelEditing discards uncommitted changes and leaves editing mode. It is
// safe to call at any time.
func (t *Tracker) CancelEditing() {
	t.working = t.committed.Clone()
	t.editing = false
}

// SaveChanges accepts the working document as committed and leaves editing
// mode. It does not persist anything.
func (t *Tracker) SaveChanges() {
	t.committed = t.working.Clone()
	t.editing = false
}

// StopEditing leaves editing mode and keeps the working document as is.
func (t *Tracker) StopEditing() {
	t.editing = false
}

// Reset replaces both copies with doc, as after a load.
func (t *Tracker) Reset(doc *graph.Document) {
	if doc == nil {
		doc = graph.NewDocument()
	}
	t.working = doc
	t.committed = doc.Clone()
	t.editing = false
}

// Replace swaps in a new working document and keeps the committed snapshot,
// so the replacement shows as dirty until it is committed.
func (t *Tracker) Replace(doc *graph.Document) {
	if doc == nil {
		doc = graph.NewDocument()
	}
	doc.UseSequence(t.working.Sequence())
	t.working = doc
}

// MarkCommitted records snapshot as persisted. Changes made to the working
// document after the snapshot was taken stay dirty.
func (t *Tracker) MarkCommitted(snapshot *graph.Document) {
	if snapshot == nil {
		return
	}
	t.committed = snapshot.Clone()
}
