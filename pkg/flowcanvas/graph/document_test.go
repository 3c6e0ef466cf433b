package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, d *Document, kind Kind) Node {
	t.Helper()
	n, err := d.AddNode(kind, Position{})
	require.NoError(t, err)
	return n
}

func connect(t *testing.T, d *Document, from, to Node) Edge {
	t.Helper()
	src, ok := PrimarySource(from.Kind)
	require.True(t, ok)
	tgt, ok := PrimaryTarget(to.Kind)
	require.True(t, ok)
	e, err := d.AddEdge(EdgeRef{from.ID, src.ID}, EdgeRef{to.ID, tgt.ID}, "")
	require.NoError(t, err)
	return e
}

func TestNewDocument(t *testing.T) {
	d := NewDocument()
	assert.Equal(t, Version, d.Version)
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Edges())
	assert.NotNil(t, d.Fields)
}

func TestDocument_AddNode_AssignsDefaults(t *testing.T) {
	d := NewDocument()
	n, err := d.AddNode(KindDecision, Position{X: 10, Y: 20})
	require.NoError(t, err)

	assert.Equal(t, "decision-1", n.ID)
	assert.Equal(t, KindDecision, n.Kind)
	assert.Equal(t, "Decision", n.Label)
	assert.Empty(t, n.Content)
	assert.Equal(t, Position{X: 10, Y: 20}, n.Position)
	assert.Equal(t, DefaultSize, n.Size)

	got, ok := d.Node(n.ID)
	require.True(t, ok)
	assert.Equal(t, n, got)
}

func TestDocument_AddNode_UnknownKind(t *testing.T) {
	d := NewDocument()
	_, err := d.AddNode(Kind("widget"), Position{})
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.Equal(t, 0, d.Len())
}

func TestDocument_AddNode_IDsNeverRepeat(t *testing.T) {
	d := NewDocument()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		n := mustAdd(t, d, KindAgent)
		assert.False(t, seen[n.ID], "id %s repeated", n.ID)
		seen[n.ID] = true
	}

	// Ids stay unique across a discarded clone sharing the sequence.
	clone := d.Clone()
	discarded := mustAdd(t, clone, KindAgent)
	n := mustAdd(t, d, KindAgent)
	assert.NotEqual(t, discarded.ID, n.ID)
}

func TestDocument_AddNode_SkipsTakenIDs(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.PutNode(Node{ID: "agent-1", Kind: KindAgent}))
	n := mustAdd(t, d, KindAgent)
	assert.Equal(t, "agent-2", n.ID)
}

func TestDocument_PutNode_Errors(t *testing.T) {
	d := NewDocument()
	require.NoError(t, d.PutNode(Node{ID: "a", Kind: KindAgent}))

	assert.ErrorIs(t, d.PutNode(Node{ID: "a", Kind: KindAgent}), ErrDuplicateNode)
	assert.ErrorIs(t, d.PutNode(Node{ID: "b", Kind: "bogus"}), ErrUnknownKind)
	assert.ErrorIs(t, d.PutNode(Node{Kind: KindAgent}), ErrMalformedDocument)
}

func TestDocument_AddEdge_Validation(t *testing.T) {
	d := NewDocument()
	agent := mustAdd(t, d, KindAgent)
	start := mustAdd(t, d, KindStart)
	end := mustAdd(t, d, KindEnd)
	note := mustAdd(t, d, KindNote)

	tests := []struct {
		name   string
		source EdgeRef
		target EdgeRef
	}{
		{"missing source node", EdgeRef{"ghost", "source-bottom"}, EdgeRef{agent.ID, "target-top"}},
		{"missing target node", EdgeRef{agent.ID, "source-bottom"}, EdgeRef{"ghost", "target-top"}},
		{"unknown source handle", EdgeRef{agent.ID, "source-left"}, EdgeRef{end.ID, "target-top"}},
		{"source handle is a target", EdgeRef{agent.ID, "target-top"}, EdgeRef{end.ID, "target-top"}},
		{"target handle is a source", EdgeRef{start.ID, "source-bottom"}, EdgeRef{agent.ID, "source-right"}},
		{"end has no source", EdgeRef{end.ID, "source-bottom"}, EdgeRef{agent.ID, "target-top"}},
		{"start has no target", EdgeRef{agent.ID, "source-bottom"}, EdgeRef{start.ID, "target-top"}},
		{"note has no handles", EdgeRef{agent.ID, "source-bottom"}, EdgeRef{note.ID, "target-top"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.AddEdge(tt.source, tt.target, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEdgeEndpoint)

			var edgeErr *EdgeError
			require.True(t, errors.As(err, &edgeErr))
			assert.Equal(t, tt.source, edgeErr.Source)
			assert.NotEmpty(t, edgeErr.Reason)
		})
	}
	assert.Empty(t, d.Edges(), "rejected edges must not be inserted")
}

func TestDocument_AddEdge_DecisionHandles(t *testing.T) {
	d := NewDocument()
	decision := mustAdd(t, d, KindDecision)
	agent := mustAdd(t, d, KindAgent)

	for _, h := range []string{"source-right-1", "source-right-4", "source-bottom-3"} {
		_, err := d.AddEdge(EdgeRef{decision.ID, h}, EdgeRef{agent.ID, "target-left"}, "dashed")
		require.NoError(t, err, h)
	}
	assert.Len(t, d.EdgesOf(decision.ID), 3)
}

func TestDocument_AddEdge_Duplicate(t *testing.T) {
	d := NewDocument()
	a := mustAdd(t, d, KindAgent)
	b := mustAdd(t, d, KindSystem)
	connect(t, d, a, b)

	_, err := d.AddEdge(EdgeRef{a.ID, "source-bottom"}, EdgeRef{b.ID, "target-top"}, "")
	assert.ErrorIs(t, err, ErrDuplicateEdge)
	assert.Len(t, d.Edges(), 1)
}

func TestEdgeID_DistinctConnectionsNeverCollide(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]EdgeRef
	}{
		{
			name: "hyphen shifts between node and handle",
			a:    [2]EdgeRef{{"a-b", "c"}, {"d", "e"}},
			b:    [2]EdgeRef{{"a", "b-c"}, {"d", "e"}},
		},
		{
			name: "separator inside node id",
			a:    [2]EdgeRef{{"a|b", "c"}, {"d", "e"}},
			b:    [2]EdgeRef{{"a", "b|c"}, {"d", "e"}},
		},
		{
			name: "arrow inside node id",
			a:    [2]EdgeRef{{"a", "b>c"}, {"d", "e"}},
			b:    [2]EdgeRef{{"a", "b"}, {"c>d", "e"}},
		},
		{
			name: "escape character",
			a:    [2]EdgeRef{{`a\`, "b"}, {"c", "d"}},
			b:    [2]EdgeRef{{`a\|b`, ""}, {"c", "d"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEqual(t, EdgeID(tt.a[0], tt.a[1]), EdgeID(tt.b[0], tt.b[1]))
		})
	}
	assert.Equal(t, "e:agent-1|source-bottom>end-2|target-top",
		EdgeID(EdgeRef{"agent-1", "source-bottom"}, EdgeRef{"end-2", "target-top"}))
}

func TestDocument_AddEdge_HyphenatedIDs(t *testing.T) {
	d := NewDocument()
	for _, n := range []Node{
		{ID: "x", Kind: KindAgent},
		{ID: "x-source", Kind: KindAgent},
		{ID: "y", Kind: KindAgent},
		{ID: "bottom-y", Kind: KindAgent},
	} {
		require.NoError(t, d.PutNode(n))
	}

	e1, err := d.AddEdge(EdgeRef{"x", "source-bottom"}, EdgeRef{"y", "target-top"}, "")
	require.NoError(t, err)
	e2, err := d.AddEdge(EdgeRef{"x-source", "source-bottom"}, EdgeRef{"bottom-y", "target-top"}, "")
	require.NoError(t, err)
	assert.NotEqual(t, e1.ID, e2.ID)
	assert.Len(t, d.Edges(), 2)
}

func TestDocument_RemoveNode_Cascades(t *testing.T) {
	d := NewDocument()
	hub := mustAdd(t, d, KindSystem)
	in := mustAdd(t, d, KindStart)
	out1 := mustAdd(t, d, KindAgent)
	out2 := mustAdd(t, d, KindEnd)
	connect(t, d, in, hub)
	connect(t, d, hub, out1)
	_, err := d.AddEdge(EdgeRef{hub.ID, "source-right"}, EdgeRef{out2.ID, "target-left"}, "")
	require.NoError(t, err)
	keep := connect(t, d, out1, out2)

	require.Len(t, d.EdgesOf(hub.ID), 3)

	removed, err := d.RemoveNode(hub.ID)
	require.NoError(t, err)
	assert.Len(t, removed, 3)

	assert.False(t, d.HasNode(hub.ID))
	for _, e := range d.Edges() {
		assert.False(t, e.Touches(hub.ID), "dangling edge %s", e.ID)
	}
	assert.Equal(t, []Edge{keep}, d.Edges())

	// Index stays consistent after removal.
	for _, n := range d.Nodes() {
		got, ok := d.Node(n.ID)
		require.True(t, ok)
		assert.Equal(t, n, got)
	}
}

func TestDocument_RemoveNode_Missing(t *testing.T) {
	_, err := NewDocument().RemoveNode("nope")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDocument_RemoveEdge(t *testing.T) {
	d := NewDocument()
	a := mustAdd(t, d, KindAgent)
	b := mustAdd(t, d, KindEnd)
	e := connect(t, d, a, b)

	require.NoError(t, d.RemoveEdge(e.ID))
	assert.Empty(t, d.Edges())
	assert.ErrorIs(t, d.RemoveEdge(e.ID), ErrEdgeNotFound)
}

func TestDocument_UpdateNode(t *testing.T) {
	d := NewDocument()
	n := mustAdd(t, d, KindAgent)
	require.NoError(t, d.SetSize(n.ID, Size{Width: 300, Height: 300}, true))

	label := "Greet caller"
	pos := Position{X: 5, Y: 6}

	t.Run("position only keeps manual size", func(t *testing.T) {
		change, err := d.UpdateNode(n.ID, NodePatch{Position: &pos})
		require.NoError(t, err)
		assert.True(t, change.PositionChanged)
		assert.False(t, change.ContentChanged)

		got, _ := d.Node(n.ID)
		assert.Equal(t, pos, got.Position)
		assert.True(t, got.ManualSize)
	})

	t.Run("same values report no change", func(t *testing.T) {
		change, err := d.UpdateNode(n.ID, NodePatch{Position: &pos})
		require.NoError(t, err)
		assert.False(t, change.Any())
	})

	t.Run("label change clears manual size", func(t *testing.T) {
		change, err := d.UpdateNode(n.ID, NodePatch{Label: &label})
		require.NoError(t, err)
		assert.True(t, change.ContentChanged)

		got, _ := d.Node(n.ID)
		assert.Equal(t, label, got.Label)
		assert.Equal(t, pos, got.Position, "unpatched fields are preserved")
		assert.False(t, got.ManualSize)
	})

	t.Run("missing node", func(t *testing.T) {
		_, err := d.UpdateNode("ghost", NodePatch{Label: &label})
		assert.ErrorIs(t, err, ErrNodeNotFound)
	})
}

func TestDocument_CloneIsDeep(t *testing.T) {
	d := NewDocument()
	a := mustAdd(t, d, KindAgent)
	b := mustAdd(t, d, KindEnd)
	connect(t, d, a, b)
	d.Fields["title"] = "Refund flow"

	c := d.Clone()
	require.True(t, d.Equal(c))

	_, err := c.SetPosition(a.ID, Position{X: 99})
	require.NoError(t, err)
	c.Fields["title"] = "changed"
	_, err = c.RemoveNode(b.ID)
	require.NoError(t, err)

	got, _ := d.Node(a.ID)
	assert.Equal(t, Position{}, got.Position)
	assert.Equal(t, "Refund flow", d.Fields["title"])
	assert.Len(t, d.Edges(), 1)
	assert.False(t, d.Equal(c))
}

func TestDocument_Equal_IgnoresOrder(t *testing.T) {
	a := NewDocument()
	b := NewDocument()
	require.NoError(t, a.PutNode(Node{ID: "x", Kind: KindAgent}))
	require.NoError(t, a.PutNode(Node{ID: "y", Kind: KindEnd}))
	require.NoError(t, b.PutNode(Node{ID: "y", Kind: KindEnd}))
	require.NoError(t, b.PutNode(Node{ID: "x", Kind: KindAgent}))

	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	_, err := b.SetPosition("x", Position{X: 1})
	require.NoError(t, err)
	assert.False(t, a.Equal(b))

	_, err = b.SetPosition("x", Position{})
	require.NoError(t, err)
	assert.True(t, a.Equal(b), "reverting a change restores equality")
}

func TestDocument_Bounds(t *testing.T) {
	d := NewDocument()
	_, _, ok := d.Bounds()
	assert.False(t, ok)

	require.NoError(t, d.PutNode(Node{ID: "a", Kind: KindAgent, Position: Position{X: 10, Y: 20}, Size: Size{Width: 200, Height: 100}}))
	require.NoError(t, d.PutNode(Node{ID: "b", Kind: KindAgent, Position: Position{X: -50, Y: 300}, Size: Size{Width: 100, Height: 120}}))

	maxX, maxY, ok := d.Bounds()
	require.True(t, ok)
	assert.Equal(t, 210.0, maxX)
	assert.Equal(t, 420.0, maxY)
}

func TestDocument_ApplyPositions(t *testing.T) {
	d := NewDocument()
	n := mustAdd(t, d, KindAgent)
	d.ApplyPositions(map[string]Position{n.ID: {X: 3, Y: 4}, "ghost": {X: 1}})

	assert.Equal(t, map[string]Position{n.ID: {X: 3, Y: 4}}, d.Positions())
}

func TestDocument_Validate(t *testing.T) {
	d := NewDocument()
	a := mustAdd(t, d, KindAgent)
	b := mustAdd(t, d, KindSystem)
	connect(t, d, a, b)

	rejected, err := d.Validate()
	require.NoError(t, err)
	assert.Empty(t, rejected)

	// Bypass AddEdge to simulate an edge loaded against a stale handle table.
	d.edges = append(d.edges, Edge{ID: "stale", SourceNodeID: a.ID, SourceHandleID: "source-right-9",
		TargetNodeID: b.ID, TargetHandleID: "target-top"})

	rejected, err = d.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidEdgeEndpoint))
	require.Len(t, rejected, 1)
	assert.Equal(t, "stale", rejected[0].EdgeID)
	assert.Len(t, d.Edges(), 2, "validate must not remove edges")
}
