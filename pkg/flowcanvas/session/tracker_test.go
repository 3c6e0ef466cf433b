package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/session"
)

func seeded(t *testing.T) (*session.Tracker, graph.Node) {
	t.Helper()
	doc := graph.NewDocument()
	n, err := doc.AddNode(graph.KindAgent, graph.Position{X: 10, Y: 20})
	require.NoError(t, err)
	return session.NewTracker(doc), n
}

func TestTracker_StartsClean(t *testing.T) {
	tr, _ := seeded(t)
	assert.False(t, tr.Dirty())
	assert.False(t, tr.Editing())

	empty := session.NewTracker(nil)
	assert.False(t, empty.Dirty())
	assert.Zero(t, empty.Working().Len())
}

func TestTracker_StartEditingIsIdempotent(t *testing.T) {
	tr, _ := seeded(t)
	assert.True(t, tr.StartEditing())
	assert.False(t, tr.StartEditing())
	assert.True(t, tr.Editing())
}

func TestTracker_DirtyByValue(t *testing.T) {
	tr, n := seeded(t)

	_, err := tr.Working().SetPosition(n.ID, graph.Position{X: 99, Y: 99})
	require.NoError(t, err)
	assert.True(t, tr.Dirty())

	// Moving back clears dirty without any commit.
	_, err = tr.Working().SetPosition(n.ID, n.Position)
	require.NoError(t, err)
	assert.False(t, tr.Dirty())
}

func TestTracker_CancelEditingRestoresCommitted(t *testing.T) {
	tr, n := seeded(t)
	tr.StartEditing()

	label := "changed"
	_, err := tr.Working().UpdateNode(n.ID, graph.NodePatch{Label: &label})
	require.NoError(t, err)
	_, err = tr.Working().AddNode(graph.KindSystem, graph.Position{})
	require.NoError(t, err)
	require.True(t, tr.Dirty())

	tr.CancelEditing()
	assert.False(t, tr.Dirty())
	assert.False(t, tr.Editing())
	assert.True(t, tr.Working().Equal(tr.Committed()))

	got, ok := tr.Working().Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, n.Label, got.Label)
}

func TestTracker_CancelEditingKeepsIDsUnique(t *testing.T) {
	tr, _ := seeded(t)
	discarded, err := tr.Working().AddNode(graph.KindSystem, graph.Position{})
	require.NoError(t, err)

	tr.CancelEditing()
	fresh, err := tr.Working().AddNode(graph.KindSystem, graph.Position{})
	require.NoError(t, err)
	assert.NotEqual(t, discarded.ID, fresh.ID)
}

func TestTracker_SaveChanges(t *testing.T) {
	tr, n := seeded(t)
	tr.StartEditing()
	_, err := tr.Working().SetPosition(n.ID, graph.Position{X: 1, Y: 1})
	require.NoError(t, err)

	tr.SaveChanges()
	assert.False(t, tr.Dirty())
	assert.False(t, tr.Editing())

	// The committed copy is independent of later edits.
	_, err = tr.Working().SetPosition(n.ID, graph.Position{X: 2, Y: 2})
	require.NoError(t, err)
	assert.True(t, tr.Dirty())
	c, _ := tr.Committed().Node(n.ID)
	assert.Equal(t, graph.Position{X: 1, Y: 1}, c.Position)
}

func TestTracker_MarkCommittedKeepsLaterEditsDirty(t *testing.T) {
	tr, n := seeded(t)
	_, err := tr.Working().SetPosition(n.ID, graph.Position{X: 5, Y: 5})
	require.NoError(t, err)

	snap := tr.Snapshot()
	_, err = tr.Working().SetPosition(n.ID, graph.Position{X: 6, Y: 6})
	require.NoError(t, err)

	tr.MarkCommitted(snap)
	assert.True(t, tr.Dirty(), "edit after snapshot is not persisted")

	tr.MarkCommitted(tr.Snapshot())
	assert.False(t, tr.Dirty())

	tr.MarkCommitted(nil)
	assert.False(t, tr.Dirty())
}

func TestTracker_ResetAndReplace(t *testing.T) {
	tr, _ := seeded(t)
	tr.StartEditing()

	other := graph.NewDocument()
	other.Fields["title"] = "Refunds"
	tr.Replace(other)
	assert.True(t, tr.Dirty())
	assert.Equal(t, "Refunds", tr.Working().Fields["title"])

	tr.Reset(other)
	assert.False(t, tr.Dirty())
	assert.False(t, tr.Editing())

	tr.Reset(nil)
	assert.Zero(t, tr.Working().Len())
}

func TestTracker_StopEditingKeepsWork(t *testing.T) {
	tr, n := seeded(t)
	tr.StartEditing()
	_, err := tr.Working().SetPosition(n.ID, graph.Position{X: 9, Y: 9})
	require.NoError(t, err)

	tr.StopEditing()
	assert.False(t, tr.Editing())
	assert.True(t, tr.Dirty())
}
