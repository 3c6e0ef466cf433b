package sizing

import (
	"log/slog"
	"math"

	"github.com/mattn/go-runewidth"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
)

// Rules are the sizing constants of one node class.
type Rules struct {
	MinWidth     float64
	MaxWidth     float64
	MinHeight    float64
	LineHeight   float64
	CharWidth    float64
	PaddingX     float64
	PaddingY     float64
	HeaderHeight float64
}

// DefaultRules apply to every kind without an override.
var DefaultRules = Rules{
	MinWidth:     200,
	MaxWidth:     800,
	MinHeight:    100,
	LineHeight:   20,
	CharWidth:    8,
	PaddingX:     16,
	PaddingY:     12,
	HeaderHeight: 28,
}

// NoteRules are the smaller defaults of annotation nodes.
var NoteRules = Rules{
	MinWidth:     160,
	MaxWidth:     480,
	MinHeight:    80,
	LineHeight:   18,
	CharWidth:    7,
	PaddingX:     12,
	PaddingY:     10,
	HeaderHeight: 22,
}

// Clamp forces a size into the rule bounds.
func (r Rules) Clamp(s graph.Size) graph.Size {
	return graph.Size{
		Width:  math.Min(r.MaxWidth, math.Max(r.MinWidth, s.Width)),
		Height: math.Max(r.MinHeight, s.Height),
	}
}

// Contains reports whether a size satisfies the rule bounds.
func (r Rules) Contains(s graph.Size) bool {
	return s.Width >= r.MinWidth && s.Width <= r.MaxWidth && s.Height >= r.MinHeight
}

// Engine computes node sizes. It is stateless apart from its measurers and
// safe for concurrent use when they are.
type Engine struct {
	measurer Measurer
	rules    map[graph.Kind]Rules
	base     Rules
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMeasurer sets the preferred measurer. The heuristic is always kept as
// the fallback.
func WithMeasurer(m Measurer) Option {
	return func(e *Engine) { e.measurer = m }
}

// WithRules replaces the rules of one kind.
func WithRules(kind graph.Kind, r Rules) Option {
	return func(e *Engine) { e.rules[kind] = r }
}

// WithDefaultRules replaces the rules used by kinds without an override.
// Note nodes keep NoteRules unless overridden with WithRules.
func WithDefaultRules(r Rules) Option {
	return func(e *Engine) { e.base = r }
}

// WithLogger sets the logger used to report measurer fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates a sizing engine. Without WithMeasurer the heuristic is
// used directly.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		rules: map[graph.Kind]Rules{graph.KindNote: NoteRules},
		base:  DefaultRules,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RulesFor returns the rules of a kind.
func (e *Engine) RulesFor(kind graph.Kind) Rules {
	if r, ok := e.rules[kind]; ok {
		return r
	}
	return e.base
}

// ComputeSize returns the box of a node with the given text.
//
// A manual size wins: prior is returned unchanged (a zero prior is clamped
// so an unsized node still satisfies the bounds). Otherwise the width grows
// with the label's display width and the height fits the wrapped content.
// Equal inputs always produce equal outputs.
func (e *Engine) ComputeSize(kind graph.Kind, label, content string, prior graph.Size, manual bool) graph.Size {
	r := e.RulesFor(kind)
	if manual {
		if prior.IsZero() {
			return r.Clamp(prior)
		}
		return prior
	}

	width := float64(runewidth.StringWidth(label))*r.CharWidth + 2*r.PaddingX
	width = math.Min(r.MaxWidth, math.Max(r.MinWidth, width))

	inner := width - 2*r.PaddingX
	m := e.measure(r, content, inner)

	height := math.Max(r.MinHeight, r.HeaderHeight+m.Height+2*r.PaddingY)
	return graph.Size{Width: width, Height: math.Ceil(height)}
}

// Size computes the size of an existing node.
func (e *Engine) Size(n graph.Node) graph.Size {
	return e.ComputeSize(n.Kind, n.Label, n.Content, n.Size, n.ManualSize)
}

func (e *Engine) measure(r Rules, content string, width float64) Measurement {
	fallback := HeuristicMeasurer{CharWidth: r.CharWidth, LineHeight: r.LineHeight}
	if e.measurer == nil {
		m, _ := fallback.Measure(content, width)
		return m
	}
	m, err := e.measurer.Measure(content, width)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("text measurement failed, using estimate",
				slog.String("error", err.Error()))
		}
		m, _ = fallback.Measure(content, width)
	}
	return m
}
