package flowcanvas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/autosave"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/event"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/interaction"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/observability"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/session"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/sizing"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
)

// Canvas is one open document: the working graph, its interaction state
// and its autosave schedule.
//
// Operations are serialized by a single mutex. Events are published after
// the mutex is released, so handlers may call back into the canvas.
// Commits never run with the mutex held.
type Canvas struct {
	id  string
	cfg canvasConfig

	logger *slog.Logger
	sizer  *sizing.Engine
	events *event.Dispatcher
	sched  *autosave.Scheduler

	mu      sync.Mutex
	tracker *session.Tracker
	ctrl    *interaction.Controller

	// epoch counts cancellations. A commit whose snapshot was taken in an
	// earlier epoch wrote discarded state and must not become committed.
	epoch     uint64
	lastSnap  *graph.Document
	snapEpoch uint64
}

// Open loads documentID from s and starts a session on it.
//
// A missing document starts empty. A malformed one also starts empty; the
// cause is logged and reported in the document.loaded event. Edges that
// reference missing nodes or handles are dropped and reported as
// edge.rejected events. Other store errors are returned.
func Open(ctx context.Context, s store.Store, documentID string, opts ...Option) (*Canvas, error) {
	if s == nil {
		return nil, ErrStoreRequired
	}
	cfg := defaultCanvasConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sessionID == "" {
		cfg.sessionID = uuid.New().String()
	}
	if cfg.sizer == nil {
		cfg.sizer = sizing.NewEngine(sizing.WithLogger(cfg.logger))
	}
	if cfg.configs == nil {
		cfg.configs = interaction.DefaultConfigs(cfg.sizer)
	}
	if cfg.dispatcher == nil {
		cfg.dispatcher = event.NewDispatcher()
	}

	c := &Canvas{
		id:     documentID,
		cfg:    cfg,
		logger: observability.EnrichLogger(cfg.logger, documentID, cfg.sessionID),
		sizer:  cfg.sizer,
		events: cfg.dispatcher,
		ctrl:   interaction.NewController(cfg.configs),
	}

	doc, loaded, err := c.load(ctx, s)
	if err != nil {
		return nil, err
	}
	c.tracker = session.NewTracker(doc)

	sched, err := autosave.New(s, documentID, c.snapshot,
		autosave.WithDelay(cfg.delay),
		autosave.WithClock(cfg.clock),
		autosave.WithRetry(cfg.retry),
		autosave.WithOnCommit(c.committed),
		autosave.WithLogger(c.logger),
		autosave.WithMetrics(cfg.metrics),
		autosave.WithTracing(cfg.spans),
	)
	if err != nil {
		return nil, err
	}
	c.sched = sched

	c.publish(loaded...)
	return c, nil
}

// load reads and normalizes the stored document.
func (c *Canvas) load(ctx context.Context, s store.Store) (*graph.Document, []event.Event, error) {
	ctx, span := c.cfg.spans.StartLoadSpan(ctx, c.id)
	doc, rejected, err := store.LoadDocument(ctx, s, c.id)
	c.cfg.spans.EndSpanWithError(span, err)

	payload := event.LoadPayload{}
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		doc = graph.NewDocument()
	case errors.Is(err, graph.ErrMalformedDocument):
		observability.LogLoadFallback(c.logger, c.id, err)
		doc = graph.NewDocument()
		payload.Fallback = true
		payload.Err = err
	default:
		return nil, nil, fmt.Errorf("open %s: %w", c.id, err)
	}

	// Stored sizes are kept unless they were never set or break the rules.
	for _, n := range doc.Nodes() {
		if n.ManualSize && !n.Size.IsZero() {
			continue
		}
		if n.Size.IsZero() || !c.sizer.RulesFor(n.Kind).Contains(n.Size) {
			_ = doc.SetSize(n.ID, c.sizer.Size(n), n.ManualSize)
		}
	}

	var events []event.Event
	for _, r := range rejected {
		observability.LogEdgeRejected(c.logger, r.EdgeID, r)
		c.cfg.metrics.RecordEdgeRejected(ctx, "load")
		events = append(events, c.event(event.EdgeRejected, event.EdgeRejectedPayload{Err: r}))
	}
	payload.Nodes = doc.Len()
	payload.Edges = len(doc.Edges())
	payload.Rejected = len(rejected)
	events = append(events, c.event(event.DocumentLoaded, payload))
	return doc, events, nil
}

// ID returns the document id.
func (c *Canvas) ID() string { return c.id }

// SessionID returns the id stamped on this canvas's events.
func (c *Canvas) SessionID() string { return c.cfg.sessionID }

// Sizing returns the sizing engine.
func (c *Canvas) Sizing() *sizing.Engine { return c.sizer }

// Subscribe registers a handler for the given event types, or for all
// events when none are given.
func (c *Canvas) Subscribe(h event.Handler, types ...event.Type) event.Subscription {
	return c.events.Subscribe(h, types...)
}

// Document returns a copy of the working document.
func (c *Canvas) Document() *graph.Document {
	return c.snapshot()
}

// Node returns one node of the working document.
func (c *Canvas) Node(id string) (graph.Node, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Working().Node(id)
}

// Dirty reports whether the working document differs from the last
// commit.
func (c *Canvas) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Dirty()
}

// Editing reports whether the canvas is in editing mode.
func (c *Canvas) Editing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Editing()
}

// AutosavePending reports whether an autosave is scheduled or a failed
// commit awaits a retry.
func (c *Canvas) AutosavePending() bool {
	return c.sched.Pending()
}

// InteractionState returns the state of the pointer gesture.
func (c *Canvas) InteractionState() interaction.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ctrl.State()
}

// StartEditing enters editing mode. It reports false when already editing.
func (c *Canvas) StartEditing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.StartEditing()
}

// CancelEditing aborts any gesture, drops the pending autosave and
// restores the last committed document. It is safe to call at any time.
func (c *Canvas) CancelEditing() {
	c.mu.Lock()
	c.ctrl.Abort()
	c.sched.Cancel()
	c.tracker.CancelEditing()
	c.epoch++
	doc := c.tracker.Working()
	evt := c.event(event.SessionCancelled, event.ReplacePayload{
		Source: "cancel", Nodes: doc.Len(), Edges: len(doc.Edges()),
	})
	c.mu.Unlock()

	c.publish(evt)
}

// SaveChanges commits the working document now and, on success, leaves
// editing mode. On failure the canvas stays dirty and in editing mode.
func (c *Canvas) SaveChanges(ctx context.Context) autosave.Result {
	res := c.sched.SaveNow(ctx)
	if res.Err == nil {
		c.mu.Lock()
		c.tracker.StopEditing()
		c.mu.Unlock()
	}
	return res
}

// SaveNow commits the working document immediately, cancelling the
// pending autosave. Editing mode is unchanged.
func (c *Canvas) SaveNow(ctx context.Context) autosave.Result {
	return c.sched.SaveNow(ctx)
}

// Close stops the autosave timer. Pending edits are not flushed.
func (c *Canvas) Close() {
	c.sched.Close()
}

// snapshot is the autosave source. It runs on the timer goroutine.
func (c *Canvas) snapshot() *graph.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSnap = c.tracker.Snapshot()
	c.snapEpoch = c.epoch
	return c.lastSnap
}

// committed receives every commit result from the scheduler.
func (c *Canvas) committed(res autosave.Result) {
	payload := event.CommitPayload{
		Trigger:  res.Trigger.String(),
		Bytes:    res.Bytes,
		Attempts: res.Attempts,
		Err:      res.Err,
	}
	t := event.CommitFailed
	if res.Err == nil {
		t = event.CommitSucceeded
		c.mu.Lock()
		if res.Snapshot == c.lastSnap && c.snapEpoch != c.epoch {
			// Cancelled while the write was in flight: the store now holds
			// discarded edits, so schedule a rewrite of the restored document.
			c.sched.Touch()
		} else {
			c.tracker.MarkCommitted(res.Snapshot)
		}
		c.mu.Unlock()
	}
	c.publish(c.event(t, payload))
}

// mutate runs fn under the lock, touches the autosave timer when fn
// reports a change, and publishes the events fn returned.
func (c *Canvas) mutate(fn func(doc *graph.Document) (changed bool, events []event.Event, err error)) error {
	c.mu.Lock()
	changed, events, err := fn(c.tracker.Working())
	if changed {
		c.sched.Touch()
	}
	c.mu.Unlock()

	c.publish(events...)
	return err
}

func (c *Canvas) event(t event.Type, payload any) event.Event {
	return event.New(t, payload,
		event.WithDocumentID(c.id),
		event.WithSessionID(c.cfg.sessionID),
		event.WithTimestamp(c.cfg.clock.Now()),
	)
}

func (c *Canvas) publish(events ...event.Event) {
	if len(events) > 0 {
		c.events.Publish(events...)
	}
}
