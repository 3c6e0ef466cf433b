package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordCommit does nothing.
func (NoopMetrics) RecordCommit(context.Context, string, time.Duration, int64, error) {}

// RecordEdgeRejected does nothing.
func (NoopMetrics) RecordEdgeRejected(context.Context, string) {}

// RecordMerge does nothing.
func (NoopMetrics) RecordMerge(context.Context, string, int) {}

// NoopSpanManager is a SpanManager that does nothing.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

var noopSpan = noop.Span{}

// StartCommitSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartCommitSpan(ctx context.Context, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartLoadSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartLoadSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartMergeSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartMergeSpan(ctx context.Context, _ string, _ int) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(trace.Span, error) {}
