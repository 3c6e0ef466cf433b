package graph

import (
	"math"
	"strings"
)

// Position is a point in canvas coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are usable numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Size is a node's box dimensions.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the size was never set.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// DefaultSize is the size a node has before the sizing engine runs.
var DefaultSize = Size{Width: 200, Height: 100}

// Node is one step on the canvas.
//
// Size is derived from Label and Content unless ManualSize is set, in which
// case the user's resize sticks until the content changes again.
type Node struct {
	ID         string
	Kind       Kind
	Label      string
	Content    string
	Position   Position
	Size       Size
	ManualSize bool
}

// NodePatch lists the fields UpdateNode should replace. Nil fields are kept.
type NodePatch struct {
	Label    *string
	Content  *string
	Position *Position
}

// Change reports what an update touched.
type Change struct {
	NodeID          string
	ContentChanged  bool
	PositionChanged bool
}

// Any reports whether anything changed.
func (c Change) Any() bool {
	return c.ContentChanged || c.PositionChanged
}

// EdgeRef addresses one endpoint of an edge.
type EdgeRef struct {
	NodeID   string
	HandleID string
}

// Edge connects a source handle to a target handle. Style is an opaque
// presentation tag.
type Edge struct {
	ID             string
	SourceNodeID   string
	SourceHandleID string
	TargetNodeID   string
	TargetHandleID string
	Style          string
}

// Source returns the source endpoint.
func (e Edge) Source() EdgeRef {
	return EdgeRef{NodeID: e.SourceNodeID, HandleID: e.SourceHandleID}
}

// Target returns the target endpoint.
func (e Edge) Target() EdgeRef {
	return EdgeRef{NodeID: e.TargetNodeID, HandleID: e.TargetHandleID}
}

// Touches reports whether the edge has nodeID at either end.
func (e Edge) Touches(nodeID string) bool {
	return e.SourceNodeID == nodeID || e.TargetNodeID == nodeID
}

// EdgeID builds the id AddEdge assigns to a connection, in the form
// "e:<node>|<handle>><node>|<handle>". Separator characters inside a part
// are backslash-escaped, so distinct connections never share an id.
func EdgeID(source, target EdgeRef) string {
	return "e:" + edgeIDEscaper.Replace(source.NodeID) + "|" + edgeIDEscaper.Replace(source.HandleID) +
		">" + edgeIDEscaper.Replace(target.NodeID) + "|" + edgeIDEscaper.Replace(target.HandleID)
}

var edgeIDEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, ">", `\>`)
