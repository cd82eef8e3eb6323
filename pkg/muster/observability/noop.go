package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// NoopMetrics is a MetricsRecorder that does nothing.
// Use when metrics are disabled to avoid overhead.
type NoopMetrics struct{}

// Compile-time interface check.
var _ MetricsRecorder = NoopMetrics{}

// RecordTransition does nothing.
func (NoopMetrics) RecordTransition(_ context.Context, _, _, _ string) {}

// RecordGuardRejection does nothing.
func (NoopMetrics) RecordGuardRejection(_ context.Context, _, _ string) {}

// RecordSubscriberCount does nothing.
func (NoopMetrics) RecordSubscriberCount(_ context.Context, _ int) {}

// RecordNotification does nothing.
func (NoopMetrics) RecordNotification(_ context.Context, _ bool) {}

// RecordTimerLag does nothing.
func (NoopMetrics) RecordTimerLag(_ context.Context, _ time.Duration) {}

// NoopSpanManager is a SpanManager that does nothing.
// Use when tracing is disabled to avoid overhead.
type NoopSpanManager struct{}

// Compile-time interface check.
var _ SpanManager = NoopSpanManager{}

// noopSpan is a span that does nothing.
// We use the OTel noop package for a proper no-op span implementation.
var noopSpan = noop.Span{}

// StartTransitionSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartTransitionSpan(ctx context.Context, _, _, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// StartRehydrateSpan returns the context unchanged and a no-op span.
func (NoopSpanManager) StartRehydrateSpan(ctx context.Context, _ string) (context.Context, trace.Span) {
	return ctx, noopSpan
}

// EndSpanWithError does nothing.
func (NoopSpanManager) EndSpanWithError(_ trace.Span, _ error) {}

// AddSpanEvent does nothing.
func (NoopSpanManager) AddSpanEvent(_ context.Context, _ string, _ ...attribute.KeyValue) {}
