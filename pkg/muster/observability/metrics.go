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

// MetricsRecorder records lifecycle metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordTransition records an applied state transition.
	RecordTransition(ctx context.Context, from, to, trigger string)

	// RecordGuardRejection records an operation denied by the current state.
	RecordGuardRejection(ctx context.Context, state, trigger string)

	// RecordSubscriberCount records the roster size after a change.
	RecordSubscriberCount(ctx context.Context, count int)

	// RecordNotification records a mailbox delivery.
	RecordNotification(ctx context.Context, failed bool)

	// RecordTimerLag records how late a deadline timer fired.
	RecordTimerLag(ctx context.Context, lag time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	transitions     metric.Int64Counter
	guardRejections metric.Int64Counter
	subscriberCount metric.Int64Histogram
	notifications   metric.Int64Counter
	timerLag        metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("muster")

	transitions, err := meter.Int64Counter("muster.lifecycle.transitions",
		metric.WithDescription("Number of applied state transitions"),
	)
	if err != nil {
		return nil, err
	}

	guardRejections, err := meter.Int64Counter("muster.lifecycle.guard_rejections",
		metric.WithDescription("Number of operations denied by the current state"),
	)
	if err != nil {
		return nil, err
	}

	subscriberCount, err := meter.Int64Histogram("muster.roster.size",
		metric.WithDescription("Roster size after a membership change"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("muster.notify.deliveries",
		metric.WithDescription("Number of mailbox deliveries"),
	)
	if err != nil {
		return nil, err
	}

	timerLag, err := meter.Float64Histogram("muster.schedule.timer_lag_ms",
		metric.WithDescription("How late deadline timers fired, in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		transitions:     transitions,
		guardRejections: guardRejections,
		subscriberCount: subscriberCount,
		notifications:   notifications,
		timerLag:        timerLag,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
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

// RecordTransition records an applied state transition.
func (m *otelMetrics) RecordTransition(ctx context.Context, from, to, trigger string) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
		attribute.String("trigger", trigger),
	))
}

// RecordGuardRejection records an operation denied by the current state.
func (m *otelMetrics) RecordGuardRejection(ctx context.Context, state, trigger string) {
	m.guardRejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("state", state),
		attribute.String("trigger", trigger),
	))
}

// RecordSubscriberCount records the roster size after a change.
func (m *otelMetrics) RecordSubscriberCount(ctx context.Context, count int) {
	m.subscriberCount.Record(ctx, int64(count))
}

// RecordNotification records a mailbox delivery.
func (m *otelMetrics) RecordNotification(ctx context.Context, failed bool) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("failed", failed),
	))
}

// RecordTimerLag records how late a deadline timer fired.
func (m *otelMetrics) RecordTimerLag(ctx context.Context, lag time.Duration) {
	if lag < 0 {
		lag = 0
	}
	m.timerLag.Record(ctx, float64(lag.Milliseconds()))
}
