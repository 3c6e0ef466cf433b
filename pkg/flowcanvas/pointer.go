package flowcanvas

import (
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/event"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/interaction"
)

// PointerDown starts a gesture on whatever lies under p. It reports
// whether the press was consumed; an unconsumed press belongs to the
// canvas (pan, box select).
func (c *Canvas) PointerDown(p interaction.Point) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	target := interaction.HitTest(c.tracker.Working().Nodes(), p, c.cfg.grip)
	return c.ctrl.PointerDown(target, p)
}

// PointerMove updates the active gesture. Resizes and moves apply to the
// working document live.
func (c *Canvas) PointerMove(p interaction.Point) bool {
	return c.pointer(func() (interaction.Update, bool) { return c.ctrl.PointerMove(p) })
}

// PointerUp finishes the active gesture.
func (c *Canvas) PointerUp(p interaction.Point) bool {
	return c.pointer(func() (interaction.Update, bool) { return c.ctrl.PointerUp(p) })
}

// PointerLeave finishes the active gesture as if the button was released
// at p.
func (c *Canvas) PointerLeave(p interaction.Point) bool {
	return c.pointer(func() (interaction.Update, bool) { return c.ctrl.PointerLeave(p) })
}

func (c *Canvas) pointer(step func() (interaction.Update, bool)) bool {
	var handled bool
	_ = c.mutate(func(doc *graph.Document) (bool, []event.Event, error) {
		u, ok := step()
		if !ok {
			return false, nil, nil
		}
		handled = true
		return c.apply(doc, u)
	})
	return handled
}

// apply writes a controller update into doc.
func (c *Canvas) apply(doc *graph.Document, u interaction.Update) (bool, []event.Event, error) {
	n, ok := doc.Node(u.NodeID)
	if !ok {
		// Removed mid-gesture.
		c.ctrl.Abort()
		return false, nil, nil
	}
	switch u.Kind {
	case interaction.UpdateResizePreview, interaction.UpdateResized:
		if err := doc.SetSize(u.NodeID, u.Size, true); err != nil {
			return false, nil, err
		}
		t := event.NodeResizePreview
		if u.Kind.Final() {
			t = event.NodeResized
		}
		changed := n.Size != u.Size || !n.ManualSize
		return changed, []event.Event{c.event(t, event.ResizePayload{NodeID: u.NodeID, Size: u.Size, Manual: true})}, nil
	case interaction.UpdateMove, interaction.UpdateMoved:
		change, err := doc.SetPosition(u.NodeID, u.Position)
		if err != nil {
			return false, nil, err
		}
		if !change.PositionChanged && !u.Kind.Final() {
			return false, nil, nil
		}
		return change.PositionChanged, []event.Event{c.event(event.NodePositionChanged,
			event.PositionPayload{NodeID: u.NodeID, Position: u.Position})}, nil
	}
	return false, nil, nil
}
