// Package autosave debounces document commits.
//
// Every edit calls Touch, which (re)starts a single timer. When the timer
// fires with no newer touch, the current document is committed with
// TriggerAutosave. SaveNow cancels the pending timer and commits
// immediately with TriggerManual, so a manual save is never followed by a
// redundant autosave of the same state.
package autosave

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/graph"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/observability"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/retry"
	"github.com/randalmurphal/flowcanvas/pkg/flowcanvas/store"
)

// DefaultDelay is the quiet period before an autosave.
const DefaultDelay = 30 * time.Second

// Trigger says what started a commit.
type Trigger string

const (
	// TriggerAutosave is a debounced background commit. UIs report it
	// silently.
	TriggerAutosave Trigger = "autosave"
	// TriggerManual is an explicit save. UIs show a confirmation.
	TriggerManual Trigger = "manual"
)

// String returns the trigger name.
func (t Trigger) String() string { return string(t) }

// Result reports one commit.
type Result struct {
	Trigger    Trigger
	DocumentID string
	// Bytes is the encoded document size, zero on failure.
	Bytes    int
	Attempts int
	Duration time.Duration
	// Snapshot is the document that was committed.
	Snapshot *graph.Document
	Err      error
}

// SnapshotFunc returns the document to commit. It is called once per
// commit, outside any scheduler lock.
type SnapshotFunc func() *graph.Document

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the debounce delay. Non-positive values are ignored.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRetry sets the retry policy for store writes.
func WithRetry(cfg retry.Config) Option {
	return func(s *Scheduler) { s.retry = cfg }
}

// WithOnCommit registers a callback invoked after every commit attempt.
func WithOnCommit(fn func(Result)) Option {
	return func(s *Scheduler) { s.onCommit = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithMetrics enables commit metrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(s *Scheduler) { s.metrics = m }
}

// WithTracing enables commit spans.
func WithTracing(sm observability.SpanManager) Option {
	return func(s *Scheduler) { s.spans = sm }
}

// Scheduler owns the single debounce timer of one document.
// It is safe for concurrent use.
type Scheduler struct {
	store      store.Store
	documentID string
	snapshot   SnapshotFunc

	clock    Clock
	delay    time.Duration
	retry    retry.Config
	onCommit func(Result)
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	pending bool
	closed  bool

	// commitMu orders commits so a later snapshot is never overwritten by
	// an earlier one.
	commitMu sync.Mutex
}

// New creates a scheduler committing documents produced by snapshot to
// s under documentID.
func New(s store.Store, documentID string, snapshot SnapshotFunc, opts ...Option) (*Scheduler, error) {
	if s == nil {
		return nil, errors.New("autosave: store is required")
	}
	if snapshot == nil {
		return nil, errors.New("autosave: snapshot func is required")
	}
	if documentID == "" {
		return nil, errors.New("autosave: document id is required")
	}
	sc := &Scheduler{
		store:      s,
		documentID: documentID,
		snapshot:   snapshot,
		clock:      SystemClock{},
		delay:      DefaultDelay,
		retry:      retry.Default,
		logger:     slog.Default(),
		metrics:    observability.NoopMetrics{},
		spans:      observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

// DocumentID returns the id commits are written under.
func (s *Scheduler) DocumentID() string { return s.documentID }

// Delay returns the debounce delay.
func (s *Scheduler) Delay() time.Duration { return s.delay }

// Touch records an edit and restarts the debounce timer.
func (s *Scheduler) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopLocked()
	s.pending = true
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Pending reports whether edits are waiting to be committed.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Cancel drops the pending timer without committing.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.pending = false
}

// SaveNow cancels any pending timer and commits immediately.
func (s *Scheduler) SaveNow(ctx context.Context) Result {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{Trigger: TriggerManual, DocumentID: s.documentID, Err: ErrClosed}
	}
	s.stopLocked()
	s.pending = false
	s.mu.Unlock()

	return s.commit(ctx, TriggerManual)
}

// Close cancels the pending timer and rejects further commits. Pending
// edits are not flushed; call SaveNow first to keep them.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.closed = true
}

// stopLocked stops the live timer and invalidates any callback that already
// fired but has not yet taken the lock.
func (s *Scheduler) stopLocked() {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.pending || s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.pending = false
	s.mu.Unlock()

	s.commit(context.Background(), TriggerAutosave)
}

func (s *Scheduler) commit(ctx context.Context, trigger Trigger) Result {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	ctx, span := s.spans.StartCommitSpan(ctx, s.documentID, string(trigger))
	elapsed := observability.TimedOperation()
	start := s.clock.Now()

	snap := s.snapshot()
	var size int
	attempts, err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		n, err := store.SaveDocument(ctx, s.store, s.documentID, snap)
		size = n
		return err
	})

	res := Result{
		Trigger:    trigger,
		DocumentID: s.documentID,
		Attempts:   attempts,
		Duration:   s.clock.Now().Sub(start),
		Snapshot:   snap,
	}
	if err != nil {
		res.Err = &CommitError{DocumentID: s.documentID, Trigger: trigger, Attempts: attempts, Err: err}
		// Keep the edits pending; the next touch or manual save retries.
		s.mu.Lock()
		s.pending = true
		s.mu.Unlock()
		observability.LogCommitError(s.logger, s.documentID, string(trigger), err, attempts)
	} else {
		res.Bytes = size
		observability.LogCommit(s.logger, s.documentID, string(trigger), size, elapsed())
	}
	s.metrics.RecordCommit(ctx, string(trigger), res.Duration, int64(res.Bytes), res.Err)
	s.spans.EndSpanWithError(span, res.Err)

	if s.onCommit != nil {
		s.onCommit(res)
	}
	return res
}
