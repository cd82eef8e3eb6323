package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the muster tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("muster")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartTransitionSpan starts a span for a single state transition.
	StartTransitionSpan(ctx context.Context, eventID, from, trigger string) (context.Context, trace.Span)

	// StartRehydrateSpan starts a span for a rehydrate pass.
	StartRehydrateSpan(ctx context.Context, eventID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartTransitionSpan starts a span for a single state transition.
func (m *otelSpanManager) StartTransitionSpan(ctx context.Context, eventID, from, trigger string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "muster.transition",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
			attribute.String("state.from", from),
			attribute.String("trigger", trigger),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartRehydrateSpan starts a span for a rehydrate pass.
func (m *otelSpanManager) StartRehydrateSpan(ctx context.Context, eventID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "muster.rehydrate",
		trace.WithAttributes(
			attribute.String("event.id", eventID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
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

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
