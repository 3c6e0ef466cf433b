package flowcanvas

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/autosave"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/event"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/interaction"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/observability"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/retry"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/sizing"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/suggest"
)

// canvasConfig holds the collaborators of a Canvas.
type canvasConfig struct {
	logger     *slog.Logger
	metrics    observability.MetricsRecorder
	spans      observability.SpanManager
	sizer      *sizing.Engine
	configs    map[graph.Kind]interaction.Config
	grip       float64
	delay      time.Duration
	clock      autosave.Clock
	retry      retry.Config
	suggester  suggest.Service
	placement  suggest.Placement
	dispatcher *event.Dispatcher
	sessionID  string
}

func defaultCanvasConfig() canvasConfig {
	return canvasConfig{
		logger:    slog.Default(),
		metrics:   observability.NoopMetrics{},
		spans:     observability.NoopSpanManager{},
		grip:      interaction.DefaultGripSize,
		delay:     autosave.DefaultDelay,
		clock:     autosave.SystemClock{},
		retry:     retry.Default,
		placement: suggest.DefaultPlacement,
	}
}

// Option configures a Canvas.
type Option func(*canvasConfig)

// WithLogger sets the logger. The canvas enriches it with the document
// and session ids.
func WithLogger(l *slog.Logger) Option {
	return func(c *canvasConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables OpenTelemetry metrics.
//
// Example:
//
//	c, err := flowcanvas.Open(ctx, s, "doc-1",
//	    flowcanvas.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *canvasConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry spans for load, commit and merge.
func WithTracing(sm observability.SpanManager) Option {
	return func(c *canvasConfig) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithSizing replaces the sizing engine. Default: sizing.NewEngine().
func WithSizing(e *sizing.Engine) Option {
	return func(c *canvasConfig) { c.sizer = e }
}

// WithInteraction sets the per-kind resize/drag configuration.
// Default: interaction.DefaultConfigs of the sizing engine.
func WithInteraction(configs map[graph.Kind]interaction.Config) Option {
	return func(c *canvasConfig) { c.configs = configs }
}

// WithGripSize sets the side of the resize grip in canvas units.
func WithGripSize(px float64) Option {
	return func(c *canvasConfig) {
		if px > 0 {
			c.grip = px
		}
	}
}

// WithAutosaveDelay sets the debounce delay. Default: 30s.
func WithAutosaveDelay(d time.Duration) Option {
	return func(c *canvasConfig) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(clock autosave.Clock) Option {
	return func(c *canvasConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithRetry sets the retry policy for store writes.
func WithRetry(cfg retry.Config) Option {
	return func(c *canvasConfig) { c.retry = cfg }
}

// WithSuggester enables Suggest.
func WithSuggester(s suggest.Service) Option {
	return func(c *canvasConfig) { c.suggester = s }
}

// WithPlacement sets where suggested nodes without a position go.
func WithPlacement(p suggest.Placement) Option {
	return func(c *canvasConfig) { c.placement = p }
}

// WithDispatcher shares an event dispatcher between canvases.
func WithDispatcher(d *event.Dispatcher) Option {
	return func(c *canvasConfig) { c.dispatcher = d }
}

// WithSessionID sets the session id stamped on events. Default: a UUID.
func WithSessionID(id string) Option {
	return func(c *canvasConfig) { c.sessionID = id }
}
