package flowcanvas

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/event"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/observability"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

// AddNode places a new node of kind at pos, sized for its default label.
func (c *Canvas) AddNode(kind graph.Kind, pos graph.Position) (graph.Node, error) {
	var added graph.Node
	err := c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		n, err := doc.AddNode(kind, pos)
		if err != nil {
			return false, nil, err
		}
		n.Size = c.sizer.Size(n)
		if err := doc.SetSize(n.ID, n.Size, false); err != nil {
			return false, nil, err
		}
		added = n
		return true, []event.Event{c.event(event.NodeAdded, event.NodePayload{Node: n})}, nil
	})
	return added, err
}

// Drop receives a palette drag: tag names the kind to create at pos.
func (c *Canvas) Drop(tag string, pos graph.Position) (graph.Node, error) {
	kind, err := graph.ParseKind(tag)
	if err != nil {
		return graph.Node{}, err
	}
	return c.AddNode(kind, pos)
}

// UpdateNode applies patch. A label or content change recomputes the size
// and clears any manual size.
func (c *Canvas) UpdateNode(id string, patch graph.NodePatch) (graph.Node, error) {
	var updated graph.Node
	err := c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		change, err := doc.UpdateNode(id, patch)
		if err != nil {
			return false, nil, err
		}
		n, _ := doc.Node(id)
		var events []event.Event
		if change.ContentChanged {
			n.Size = c.sizer.Size(n)
			if err := doc.SetSize(id, n.Size, false); err != nil {
				return false, nil, err
			}
			events = append(events, c.event(event.NodeContentChanged, event.NodePayload{Node: n}))
		}
		if change.PositionChanged {
			events = append(events, c.event(event.NodePositionChanged,
				event.PositionPayload{NodeID: id, Position: n.Position}))
		}
		updated = n
		return change.Any(), events, nil
	})
	return updated, err
}

// MoveNode sets a node's position.
func (c *Canvas) MoveNode(id string, pos graph.Position) error {
	_, err := c.UpdateNode(id, graph.NodePatch{Position: &pos})
	return err
}

// RemoveNode deletes a node and every edge attached to it.
func (c *Canvas) RemoveNode(id string) error {
	return c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		n, ok := doc.Node(id)
		if !ok {
			return false, nil, fmt.Errorf("%w: %s", graph.ErrNodeNotFound, id)
		}
		edges, err := doc.RemoveNode(id)
		if err != nil {
			return false, nil, err
		}
		return true, []event.Event{c.event(event.NodeRemoved, event.NodeRemovedPayload{Node: n, Edges: edges})}, nil
	})
}

// Connect adds an edge between two handles. Invalid endpoints are rejected
// with an edge.rejected event and an error wrapping ErrInvalidEdgeEndpoint.
func (c *Canvas) Connect(source, target graph.EdgeRef, style string) (graph.Edge, error) {
	var added graph.Edge
	err := c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		e, err := doc.AddEdge(source, target, style)
		if err != nil {
			var ee *graph.EdgeError
			if errors.As(err, &ee) {
				observability.LogEdgeRejected(c.logger, ee.EdgeID, ee)
				c.cfg.metrics.RecordEdgeRejected(context.Background(), "connect")
				return false, []event.Event{c.event(event.EdgeRejected, event.EdgeRejectedPayload{Err: ee})}, err
			}
			return false, nil, err
		}
		added = e
		return true, []event.Event{c.event(event.EdgeAdded, event.EdgePayload{Edge: e})}, nil
	})
	return added, err
}

// ConnectPrimary connects the primary source handle of one node to the
// primary target handle of another.
func (c *Canvas) ConnectPrimary(sourceID, targetID, style string) (graph.Edge, error) {
	source := graph.EdgeRef{NodeID: sourceID}
	target := graph.EdgeRef{NodeID: targetID}
	if n, ok := c.Node(sourceID); ok {
		if h, ok := graph.PrimarySource(n.Kind); ok {
			source.HandleID = h.ID
		}
	}
	if n, ok := c.Node(targetID); ok {
		if h, ok := graph.PrimaryTarget(n.Kind); ok {
			target.HandleID = h.ID
		}
	}
	return c.Connect(source, target, style)
}

// Disconnect removes an edge.
func (c *Canvas) Disconnect(edgeID string) error {
	return c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		var removed graph.Edge
		for _, e := range doc.Edges() {
			if e.ID == edgeID {
				removed = e
			}
		}
		if err := doc.RemoveEdge(edgeID); err != nil {
			return false, nil, err
		}
		return true, []event.Event{c.event(event.EdgeRemoved, event.EdgePayload{Edge: removed})}, nil
	})
}

// ApplySuggestion merges p into the working document. Any gesture in
// progress is dropped. An empty payload is rejected and leaves the
// document untouched.
func (c *Canvas) ApplySuggestion(ctx context.Context, p suggest.Payload, mode suggest.Mode) error {
	if mode == "" {
		mode = suggest.ModeReplace
	}
	ctx, span := c.cfg.spans.StartMergeSpan(ctx, string(mode), len(p.Entries))
	if p.Empty() {
		err := fmt.Errorf("%w: empty payload", suggest.ErrMergeRejected)
		c.cfg.spans.EndSpanWithError(span, err)
		return err
	}

	var merged *graph.Document
	err := c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		var err error
		if len(p.Entries) == 0 {
			merged, err = suggest.MergeFields(doc, p.Fields)
		} else {
			merged, err = suggest.Merge(doc, p,
				suggest.WithMode(mode),
				suggest.WithPlacement(c.cfg.placement),
				suggest.WithSizing(c.sizer),
			)
		}
		if err != nil {
			return false, nil, err
		}
		c.ctrl.Abort()
		c.tracker.Replace(merged)
		return true, []event.Event{c.event(event.DocumentReplaced, event.ReplacePayload{
			Source: "suggestion:" + string(mode),
			Nodes:  merged.Len(),
			Edges:  len(merged.Edges()),
		})}, nil
	})
	c.cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		return err
	}

	observability.LogMerge(c.logger, string(mode), len(p.Entries), merged.Len(), len(merged.Edges()))
	c.cfg.metrics.RecordMerge(ctx, string(mode), len(p.Entries))
	return nil
}

// ApplyFields overwrites the document fields suggested with a non-empty
// value.
func (c *Canvas) ApplyFields(fields map[string]string) error {
	return c.ApplySuggestion(context.Background(), suggest.Payload{Fields: fields}, suggest.ModeReplace)
}

// Suggest asks the configured suggestion service and merges its answer.
func (c *Canvas) Suggest(ctx context.Context, prompt string, mode suggest.Mode) error {
	if c.cfg.suggester == nil {
		return ErrNoSuggester
	}
	p, err := c.cfg.suggester.Suggest(ctx, prompt, c.Document())
	if err != nil {
		return err
	}
	return c.ApplySuggestion(ctx, p, mode)
}
