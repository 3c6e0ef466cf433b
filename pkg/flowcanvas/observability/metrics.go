package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records canvas metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordCommit records a persistence commit with its trigger, duration,
	// payload size, and error status.
	RecordCommit(ctx context.Context, trigger string, duration time.Duration, sizeBytes int64, err error)

	// RecordEdgeRejected records an edge that failed validation.
	RecordEdgeRejected(ctx context.Context, source string)

	// RecordMerge records the node count produced by a suggestion merge.
	RecordMerge(ctx context.Context, mode string, nodes int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	commits       metric.Int64Counter
	commitLatency metric.Float64Histogram
	commitSize    metric.Int64Histogram
	edgesRejected metric.Int64Counter
	mergeNodes    metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the default OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flowcanvas")

	commits, err := meter.Int64Counter("flowcanvas.commits",
		metric.WithDescription("Number of document commits"),
	)
	if err != nil {
		return nil, err
	}

	commitLatency, err := meter.Float64Histogram("flowcanvas.commit.latency_ms",
		metric.WithDescription("Commit latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	commitSize, err := meter.Int64Histogram("flowcanvas.commit.size_bytes",
		metric.WithDescription("Committed document size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	edgesRejected, err := meter.Int64Counter("flowcanvas.edges.rejected",
		metric.WithDescription("Number of edges rejected by endpoint validation"),
	)
	if err != nil {
		return nil, err
	}

	mergeNodes, err := meter.Int64Histogram("flowcanvas.merge.nodes",
		metric.WithDescription("Nodes in a document produced by a suggestion merge"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		commits:       commits,
		commitLatency: commitLatency,
		commitSize:    commitSize,
		edgesRejected: edgesRejected,
		mergeNodes:    mergeNodes,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordCommit records a commit.
func (m *otelMetrics) RecordCommit(ctx context.Context, trigger string, duration time.Duration, sizeBytes int64, err error) {
	attrs := metric.WithAttributes(
		attribute.String("trigger", trigger),
		attribute.Bool("success", err == nil),
	)
	m.commits.Add(ctx, 1, attrs)
	m.commitLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err == nil {
		m.commitSize.Record(ctx, sizeBytes, attrs)
	}
}

// RecordEdgeRejected records a rejected edge.
func (m *otelMetrics) RecordEdgeRejected(ctx context.Context, source string) {
	m.edgesRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}

// RecordMerge records a merge.
func (m *otelMetrics) RecordMerge(ctx context.Context, mode string, nodes int) {
	m.mergeNodes.Record(ctx, int64(nodes), metric.WithAttributes(attribute.String("mode", mode)))
}
