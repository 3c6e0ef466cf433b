package suggest

import (
	"errors"
	"fmt"
	"maps"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/sizing"
)

// ErrMergeRejected indicates a suggestion was empty or malformed. The
// current document is left untouched.
var ErrMergeRejected = errors.New("suggestion rejected")

// Mode selects how a suggestion combines with the current document.
type Mode string

const (
	// ModeReplace discards the current nodes and edges.
	ModeReplace Mode = "replace"
	// ModeAppend keeps the current graph and adds the suggestion below it.
	ModeAppend Mode = "append"
)

// SynthesizedEdgeStyle is the style tag of edges created by Merge.
const SynthesizedEdgeStyle = "smoothstep"

type mergeConfig struct {
	mode      Mode
	placement Placement
	sizer     *sizing.Engine
}

// MergeOption configures Merge.
type MergeOption func(*mergeConfig)

// WithMode selects replace or append. Unknown modes are ignored.
func WithMode(m Mode) MergeOption {
	return func(c *mergeConfig) {
		if m == ModeReplace || m == ModeAppend {
			c.mode = m
		}
	}
}

// WithPlacement sets the layout for nodes without a position.
func WithPlacement(p Placement) MergeOption {
	return func(c *mergeConfig) { c.placement = p }
}

// WithSizing sizes new nodes with e instead of a heuristic engine.
func WithSizing(e *sizing.Engine) MergeOption {
	return func(c *mergeConfig) {
		if e != nil {
			c.sizer = e
		}
	}
}

// Merge builds the document that results from applying p to current.
// current is never modified.
//
// Each entry becomes a node with id "<kind>-<index>"; identical input
// always yields identical ids. Entries are chained in order by edges from
// the primary source handle to the next non-note entry's primary target
// handle. Notes receive no outgoing edge and are skipped as successors.
func Merge(current *graph.Document, p Payload, opts ...MergeOption) (*graph.Document, error) {
	cfg := mergeConfig{mode: ModeReplace, placement: DefaultPlacement}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sizer == nil {
		cfg.sizer = sizing.NewEngine()
	}
	if current == nil {
		current = graph.NewDocument()
	}

	kinds := make([]graph.Kind, len(p.Entries))
	for i, e := range p.Entries {
		k, err := graph.ParseKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMergeRejected, i, err)
		}
		kinds[i] = k
	}

	var out *graph.Document
	base := 0
	placement := cfg.placement
	if cfg.mode == ModeAppend {
		out = current.Clone()
		base = current.Len()
		if _, maxY, ok := current.Bounds(); ok {
			placement.StartY = maxY + placement.Gap
		}
	} else {
		out = graph.NewDocument()
		out.UseSequence(current.Sequence())
		out.Fields = maps.Clone(current.Fields)
		if out.Fields == nil {
			out.Fields = make(map[string]string)
		}
	}

	labels := make([]string, len(p.Entries))
	sizes := make([]graph.Size, len(p.Entries))
	pl := placement.start()
	for i, e := range p.Entries {
		labels[i] = e.Label
		if labels[i] == "" {
			labels[i] = kinds[i].DefaultLabel()
		}
		sizes[i] = cfg.sizer.ComputeSize(kinds[i], labels[i], e.Content, graph.Size{}, false)
		if finite(e.Position) {
			pl.reserve(*e.Position, sizes[i])
		}
	}

	ids := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		kind := kinds[i]
		n := graph.Node{
			ID:      entryID(out, kind, base+i),
			Kind:    kind,
			Label:   labels[i],
			Content: e.Content,
			Size:    sizes[i],
		}
		if finite(e.Position) {
			n.Position = *e.Position
		} else {
			n.Position = pl.next(n.Size)
		}
		if err := out.PutNode(n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMergeRejected, err)
		}
		ids[i] = n.ID
	}

	for i, kind := range kinds {
		if kind.IsAnnotation() {
			continue
		}
		j := nextFlowEntry(kinds, i)
		if j < 0 {
			break
		}
		src, okS := graph.PrimarySource(kind)
		tgt, okT := graph.PrimaryTarget(kinds[j])
		if !okS || !okT {
			continue
		}
		_, err := out.AddEdge(
			graph.EdgeRef{NodeID: ids[i], HandleID: src.ID},
			graph.EdgeRef{NodeID: ids[j], HandleID: tgt.ID},
			SynthesizedEdgeStyle,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMergeRejected, err)
		}
	}

	maps.Copy(out.Fields, nonEmpty(p.Fields))
	return out, nil
}

// nextFlowEntry returns the index of the first non-note kind after i, or -1.
func nextFlowEntry(kinds []graph.Kind, i int) int {
	for j := i + 1; j < len(kinds); j++ {
		if !kinds[j].IsAnnotation() {
			return j
		}
	}
	return -1
}

// entryID returns "<kind>-<index>", bumping the index past ids already
// present in doc.
func entryID(doc *graph.Document, kind graph.Kind, index int) string {
	for {
		id := fmt.Sprintf("%s-%d", kind, index)
		if !doc.HasNode(id) {
			return id
		}
		index++
	}
}

// MergeFields overwrites the document fields that fields sets to a
// non-empty value. Nodes and edges are kept.
func MergeFields(current *graph.Document, fields map[string]string) (*graph.Document, error) {
	set := nonEmpty(fields)
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no non-empty fields", ErrMergeRejected)
	}
	if current == nil {
		current = graph.NewDocument()
	}
	out := current.Clone()
	maps.Copy(out.Fields, set)
	return out, nil
}
