package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
)

// harness runs commands against a sqlite file so state survives between
// invocations.
type harness struct {
	t      *testing.T
	db     string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	cfg := filepath.Join(dir, "flowcanvas.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("sizing:\n  measurer: heuristic\nlog:\n  level: error\n"), 0o600))
	return &harness{t: t, db: filepath.Join(dir, "canvas.db"), config: cfg}
}

func (h *harness) run(args ...string) error {
	h.t.Helper()
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--config", h.config, "--store", "sqlite", "--db", h.db, "--doc", "flow"}, args...))
	return cmd.ExecuteContext(context.Background())
}

func (h *harness) doc() *graph.Document {
	h.t.Helper()
	s, err := store.Open("sqlite", h.db)
	require.NoError(h.t, err)
	defer s.Close()
	doc, _, err := store.LoadDocument(context.Background(), s, "flow")
	require.NoError(h.t, err)
	return doc
}

func TestCLI_EditCycle(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run("new", "flow", "--title", "Refunds"))
	require.NoError(t, h.run("add", "start"))
	require.NoError(t, h.run("add", "agent", "--y", "200", "--label", "Triage", "--content", "Read the ticket"))
	require.NoError(t, h.run("connect", "start-1", "agent-1"))
	require.NoError(t, h.run("move", "agent-1", "40", "320"))

	doc := h.doc()
	assert.Equal(t, "Refunds", doc.Fields["title"])
	require.Equal(t, 2, doc.Len())

	agent, ok := doc.Node("agent-1")
	require.True(t, ok)
	assert.Equal(t, "Triage", agent.Label)
	assert.Equal(t, graph.Position{X: 40, Y: 320}, agent.Position)
	assert.GreaterOrEqual(t, agent.Size.Width, 200.0)

	edges := doc.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "source-bottom", edges[0].SourceHandleID)
	assert.Equal(t, "target-top", edges[0].TargetHandleID)

	require.NoError(t, h.run("show"))
	require.NoError(t, h.run("show", "--json"))
	require.NoError(t, h.run("list"))

	require.NoError(t, h.run("remove", "start-1"))
	doc = h.doc()
	assert.Equal(t, 1, doc.Len())
	assert.Empty(t, doc.Edges())
}

func TestCLI_NewRefusesExisting(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("new", "flow"))
	assert.ErrorContains(t, h.run("new", "flow"), "already exists")
}

func TestCLI_Errors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
		want error
		msg  string
	}{
		{name: "unknown kind", args: []string{"add", "robot"}, want: graph.ErrUnknownKind},
		{name: "missing node", args: []string{"move", "agent-9", "1", "2"}, want: graph.ErrNodeNotFound},
		{name: "bad coordinate", args: []string{"move", "agent-1", "left", "2"}, msg: "not a number"},
		{name: "connect missing nodes", args: []string{"connect", "agent-1", "end-1"}, want: graph.ErrInvalidEdgeEndpoint},
		{name: "suggest without input", args: []string{"suggest"}, msg: "prompt or --file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.run(tt.args...)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
			if tt.msg != "" {
				assert.ErrorContains(t, err, tt.msg)
			}
		})
	}
}

func TestCLI_SuggestFromFile(t *testing.T) {
	h := newHarness(t)
	file := filepath.Join(t.TempDir(), "suggestion.json")
	require.NoError(t, os.WriteFile(file, []byte("Here you go:\n```json\n"+
		`{"nodes":[{"type":"start","label":"Begin"},{"type":"agent","label":"Check order"},{"type":"end"}],`+
		`"fields":{"title":"Orders"}}`+"\n```\n"), 0o600))

	require.NoError(t, h.run("suggest", "--file", file))
	doc := h.doc()
	assert.Equal(t, 3, doc.Len())
	assert.Len(t, doc.Edges(), 2)
	assert.Equal(t, "Orders", doc.Fields["title"])

	assert.ErrorContains(t, h.run("suggest", "--file", file), "--yes")

	require.NoError(t, h.run("suggest", "--file", file, "--append"))
	assert.Equal(t, 6, h.doc().Len())

	require.NoError(t, h.run("suggest", "--file", file, "--yes"))
	assert.Equal(t, 3, h.doc().Len())
}

func TestCLI_ReadOnlyCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("kinds"))
	require.NoError(t, h.run("measure", "short text", "--kind", "note"))
	assert.ErrorIs(t, h.run("measure", "x", "--kind", "robot"), graph.ErrUnknownKind)
}
