package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("flowcanvas")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCommitSpan starts a span around one persistence commit.
	StartCommitSpan(ctx context.Context, documentID, trigger string) (context.Context, trace.Span)

	// StartLoadSpan starts a span around loading a document.
	StartLoadSpan(ctx context.Context, documentID string) (context.Context, trace.Span)

	// StartMergeSpan starts a span around a suggestion merge.
	StartMergeSpan(ctx context.Context, mode string, entries int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return otelSpanManager{}
}

func (otelSpanManager) StartCommitSpan(ctx context.Context, documentID, trigger string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowcanvas.commit",
		trace.WithAttributes(
			attribute.String("document.id", documentID),
			attribute.String("commit.trigger", trigger),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (otelSpanManager) StartLoadSpan(ctx context.Context, documentID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowcanvas.load",
		trace.WithAttributes(attribute.String("document.id", documentID)),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (otelSpanManager) StartMergeSpan(ctx context.Context, mode string, entries int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowcanvas.merge",
		trace.WithAttributes(
			attribute.String("merge.mode", mode),
			attribute.Int("merge.entries", entries),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
