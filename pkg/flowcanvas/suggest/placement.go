package suggest

import "github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"

// Placement lays out suggested nodes that came without a position. Nodes
// alternate between two columns while a vertical cursor advances by each
// node's height plus Gap. Boxes of nodes with explicit positions are
// reserved, and a placed node that would overlap one moves below it.
type Placement struct {
	StartX float64
	StartY float64
	// ColumnOffset is the horizontal distance between the two columns.
	ColumnOffset float64
	// Gap is the vertical space left below each node.
	Gap float64
}

// DefaultPlacement matches a left-to-right canvas with 300px columns.
var DefaultPlacement = Placement{StartX: 100, StartY: 100, ColumnOffset: 300, Gap: 50}

type placer struct {
	p        Placement
	cursor   float64
	n        int
	reserved []box
}

type box struct {
	x, y, w, h float64
}

func (b box) overlaps(o box) bool {
	return b.x < o.x+o.w && o.x < b.x+b.w && b.y < o.y+o.h && o.y < b.y+b.h
}

func (p Placement) start() *placer {
	return &placer{p: p, cursor: p.StartY}
}

// reserve keeps placed nodes out of the box at pos.
func (pl *placer) reserve(pos graph.Position, size graph.Size) {
	pl.reserved = append(pl.reserved, box{pos.X, pos.Y, size.Width, size.Height})
}

// next returns the position for a node of the given size.
func (pl *placer) next(size graph.Size) graph.Position {
	b := box{
		x: pl.p.StartX + float64(pl.n%2)*pl.p.ColumnOffset,
		y: pl.cursor,
		w: size.Width,
		h: size.Height,
	}
	for moved := true; moved; {
		moved = false
		for _, r := range pl.reserved {
			if b.overlaps(r) {
				b.y = r.y + r.h + pl.p.Gap
				moved = true
			}
		}
	}
	pl.reserve(graph.Position{X: b.x, Y: b.y}, size)
	pl.cursor = b.y + size.Height + pl.p.Gap
	pl.n++
	return graph.Position{X: b.x, Y: b.y}
}
