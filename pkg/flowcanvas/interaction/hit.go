package interaction

import "github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"

// DefaultGripSize is the side of the square resize grip in the
// bottom-right corner of a node.
const DefaultGripSize = 12

// HitTest finds what lies under p. Later nodes are drawn on top, so they
// are tested first. Points outside every node hit the canvas.
func HitTest(nodes []graph.Node, p Point, grip float64) Target {
	if grip <= 0 {
		grip = DefaultGripSize
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		right := n.Position.X + n.Size.Width
		bottom := n.Position.Y + n.Size.Height
		if p.X < n.Position.X || p.X > right || p.Y < n.Position.Y || p.Y > bottom {
			continue
		}
		t := Target{Area: AreaBody, NodeID: n.ID, Kind: n.Kind, Position: n.Position, Size: n.Size}
		if p.X >= right-grip && p.Y >= bottom-grip {
			t.Area = AreaResizeHandle
		}
		return t
	}
	return Target{Area: AreaCanvas}
}
