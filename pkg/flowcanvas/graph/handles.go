package graph

// HandleType is the direction of a connection anchor.
type HandleType string

// Handle directions.
const (
	HandleSource HandleType = "source"
	HandleTarget HandleType = "target"
)

// Side is the node border a handle sits on.
type Side string

// Node borders.
const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// HandleSpec describes one connection anchor. Offset is the relative
// position along the side, 0 at the start and 1 at the end.
type HandleSpec struct {
	ID     string
	Type   HandleType
	Side   Side
	Offset float64
}

var (
	targetTop    = HandleSpec{ID: "target-top", Type: HandleTarget, Side: SideTop, Offset: 0.5}
	targetLeft   = HandleSpec{ID: "target-left", Type: HandleTarget, Side: SideLeft, Offset: 0.5}
	sourceBottom = HandleSpec{ID: "source-bottom", Type: HandleSource, Side: SideBottom, Offset: 0.5}
	sourceRight  = HandleSpec{ID: "source-right", Type: HandleSource, Side: SideRight, Offset: 0.5}
)

// handleTable is the single source of truth for which anchors a kind has.
// Order matters: the first handle of each type is the primary one.
var handleTable = map[Kind][]HandleSpec{
	KindAgent:     {targetTop, targetLeft, sourceBottom, sourceRight},
	KindSystem:    {targetTop, targetLeft, sourceBottom, sourceRight},
	KindGuardrail: {targetTop, sourceBottom, sourceRight},
	KindDecision: {
		targetTop,
		targetLeft,
		{ID: "source-right-1", Type: HandleSource, Side: SideRight, Offset: 0.2},
		{ID: "source-right-2", Type: HandleSource, Side: SideRight, Offset: 0.4},
		{ID: "source-right-3", Type: HandleSource, Side: SideRight, Offset: 0.6},
		{ID: "source-right-4", Type: HandleSource, Side: SideRight, Offset: 0.8},
		{ID: "source-bottom-1", Type: HandleSource, Side: SideBottom, Offset: 0.25},
		{ID: "source-bottom-2", Type: HandleSource, Side: SideBottom, Offset: 0.5},
		{ID: "source-bottom-3", Type: HandleSource, Side: SideBottom, Offset: 0.75},
	},
	KindEscalation: {targetTop, sourceBottom},
	KindReturn:     {targetTop, sourceBottom},
	KindStart:      {sourceBottom, sourceRight},
	KindEnd:        {targetTop, targetLeft},
	KindNote:       nil,
}

// Handles returns the anchors of a kind. The result is a copy.
func Handles(kind Kind) []HandleSpec {
	specs := handleTable[kind]
	out := make([]HandleSpec, len(specs))
	copy(out, specs)
	return out
}

// Handle looks up one anchor of a kind by id.
func Handle(kind Kind, id string) (HandleSpec, bool) {
	for _, h := range handleTable[kind] {
		if h.ID == id {
			return h, true
		}
	}
	return HandleSpec{}, false
}

// PrimarySource returns the first source anchor of a kind.
func PrimarySource(kind Kind) (HandleSpec, bool) {
	return primary(kind, HandleSource)
}

// PrimaryTarget returns the first target anchor of a kind.
func PrimaryTarget(kind Kind) (HandleSpec, bool) {
	return primary(kind, HandleTarget)
}

func primary(kind Kind, t HandleType) (HandleSpec, bool) {
	for _, h := range handleTable[kind] {
		if h.Type == t {
			return h, true
		}
	}
	return HandleSpec{}, false
}
