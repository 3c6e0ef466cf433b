// Package interaction turns pointer events into node resize and move
// updates.
//
// A Controller is an explicit state object owned by one canvas: pointer
// down on a node starts a gesture, moves produce preview updates, and
// pointer up (or leaving the canvas) produces the final update. Nothing is
// registered globally, so dropping the controller drops the gesture.
//
// Controllers are not safe for concurrent use; the canvas serializes calls.
package interaction

import (
	"math"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/sizing"
)

// State is the gesture state of a Controller.
type State int

const (
	StateIdle State = iota
	StateResizing
	StateMoving
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateResizing:
		return "resizing"
	case StateMoving:
		return "moving"
	default:
		return "idle"
	}
}

// Area is the part of the canvas a pointer went down on.
type Area int

const (
	// AreaCanvas is empty canvas; the controller ignores it so panning
	// and selection can handle it.
	AreaCanvas Area = iota
	// AreaBody is the body of a node.
	AreaBody
	// AreaResizeHandle is the bottom-right resize grip of a node.
	AreaResizeHandle
)

// Point is a pointer location in canvas coordinates.
type Point struct {
	X, Y float64
}

// Target identifies what a pointer went down on.
type Target struct {
	Area     Area
	NodeID   string
	Kind     graph.Kind
	Position graph.Position
	Size     graph.Size
}

// Config controls gestures for one node kind.
type Config struct {
	Resizable bool
	Draggable bool
	MinWidth  float64
	MinHeight float64
	// MaxWidth caps resize width. Zero means no cap.
	MaxWidth float64
}

// DefaultConfigs returns a resizable and draggable config for every kind,
// with bounds taken from the sizing rules.
func DefaultConfigs(e *sizing.Engine) map[graph.Kind]Config {
	configs := make(map[graph.Kind]Config, len(graph.Kinds()))
	for _, k := range graph.Kinds() {
		r := e.RulesFor(k)
		configs[k] = Config{
			Resizable: true,
			Draggable: true,
			MinWidth:  r.MinWidth,
			MinHeight: r.MinHeight,
			MaxWidth:  r.MaxWidth,
		}
	}
	return configs
}

// UpdateKind says what an Update carries.
type UpdateKind int

const (
	// UpdateResizePreview is an in-progress size.
	UpdateResizePreview UpdateKind = iota
	// UpdateMove is an in-progress position.
	UpdateMove
	// UpdateResized is the final size of a resize gesture.
	UpdateResized
	// UpdateMoved is the final position of a move gesture.
	UpdateMoved
)

// String returns the update kind name.
func (k UpdateKind) String() string {
	switch k {
	case UpdateResizePreview:
		return "resize_preview"
	case UpdateMove:
		return "move"
	case UpdateResized:
		return "resized"
	case UpdateMoved:
		return "moved"
	default:
		return "unknown"
	}
}

// Final reports whether the update ends a gesture.
func (k UpdateKind) Final() bool {
	return k == UpdateResized || k == UpdateMoved
}

// Update is the result of a pointer event during a gesture.
type Update struct {
	Kind     UpdateKind
	NodeID   string
	Size     graph.Size
	Position graph.Position
	// Manual is set on UpdateResized: the size was chosen by the user and
	// must survive later content edits.
	Manual bool
}

// Controller tracks one pointer gesture at a time.
type Controller struct {
	configs map[graph.Kind]Config

	state  State
	target Target
	// pointer position at gesture start, for moves
	anchor Point
}

// NewController creates a controller with per-kind configs. Kinds missing
// from configs can be neither resized nor moved.
func NewController(configs map[graph.Kind]Config) *Controller {
	c := &Controller{configs: make(map[graph.Kind]Config, len(configs))}
	for k, cfg := range configs {
		c.configs[k] = cfg
	}
	return c
}

// State returns the current gesture state.
func (c *Controller) State() State {
	return c.state
}

// Active returns the node of the current gesture.
func (c *Controller) Active() (nodeID string, ok bool) {
	if c.state == StateIdle {
		return "", false
	}
	return c.target.NodeID, true
}

// Config returns the config of a kind.
func (c *Controller) Config(kind graph.Kind) (Config, bool) {
	cfg, ok := c.configs[kind]
	return cfg, ok
}

// PointerDown starts a gesture and reports whether the event was consumed.
//
// A resize handle always consumes the event, so grabbing it never starts a
// node move or canvas pan, and starts resizing when the kind is resizable.
// A node body starts a move when the kind is draggable. Empty canvas is
// never consumed. While a gesture is active further presses are consumed
// and ignored.
func (c *Controller) PointerDown(t Target, p Point) bool {
	if c.state != StateIdle {
		return true
	}
	if t.NodeID == "" {
		return false
	}
	cfg := c.configs[t.Kind]

	switch t.Area {
	case AreaResizeHandle:
		if cfg.Resizable {
			c.begin(StateResizing, t, p)
		}
		return true
	case AreaBody:
		if !cfg.Draggable {
			return false
		}
		c.begin(StateMoving, t, p)
		return true
	default:
		return false
	}
}

func (c *Controller) begin(s State, t Target, p Point) {
	c.state = s
	c.target = t
	c.anchor = p
}

// PointerMove returns the preview update for p. It is a no-op while idle,
// so a stray move after the gesture ended changes nothing.
func (c *Controller) PointerMove(p Point) (Update, bool) {
	switch c.state {
	case StateResizing:
		return Update{Kind: UpdateResizePreview, NodeID: c.target.NodeID, Size: c.resize(p),
			Position: c.target.Position}, true
	case StateMoving:
		return Update{Kind: UpdateMove, NodeID: c.target.NodeID, Position: c.move(p),
			Size: c.target.Size}, true
	default:
		return Update{}, false
	}
}

// PointerUp ends the gesture at p and returns its final update.
func (c *Controller) PointerUp(p Point) (Update, bool) {
	var u Update
	switch c.state {
	case StateResizing:
		u = Update{Kind: UpdateResized, NodeID: c.target.NodeID, Size: c.resize(p),
			Position: c.target.Position, Manual: true}
	case StateMoving:
		u = Update{Kind: UpdateMoved, NodeID: c.target.NodeID, Position: c.move(p),
			Size: c.target.Size}
	default:
		return Update{}, false
	}
	c.reset()
	return u, true
}

// PointerLeave ends the gesture when the pointer leaves the canvas. The
// last position inside the canvas is the final one.
func (c *Controller) PointerLeave(p Point) (Update, bool) {
	return c.PointerUp(p)
}

// Abort drops the active gesture without a final update.
func (c *Controller) Abort() bool {
	if c.state == StateIdle {
		return false
	}
	c.reset()
	return true
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.target = Target{}
	c.anchor = Point{}
}

// resize measures from the node's top-left corner to the pointer.
func (c *Controller) resize(p Point) graph.Size {
	cfg := c.configs[c.target.Kind]
	width := math.Max(cfg.MinWidth, p.X-c.target.Position.X)
	if cfg.MaxWidth > 0 {
		width = math.Min(cfg.MaxWidth, width)
	}
	return graph.Size{
		Width:  width,
		Height: math.Max(cfg.MinHeight, p.Y-c.target.Position.Y),
	}
}

func (c *Controller) move(p Point) graph.Position {
	return graph.Position{
		X: c.target.Position.X + p.X - c.anchor.X,
		Y: c.target.Position.Y + p.Y - c.anchor.Y,
	}
}
