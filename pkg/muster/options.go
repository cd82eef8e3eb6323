package muster

import (
	"log/slog"

	"github.com/randalmurphal/muster/pkg/muster/notify"
	"github.com/randalmurphal/muster/pkg/muster/observability"
	"github.com/randalmurphal/muster/pkg/muster/schedule"
)

// Option configures a Lifecycle at construction.
type Option func(*Lifecycle)

// WithID sets a specific event ID (default: auto-generated).
// Used when rehydrating from a snapshot.
func WithID(id string) Option {
	return func(l *Lifecycle) {
		if id != "" {
			l.id = id
		}
	}
}

// WithScheduler sets the deadline scheduler.
// Default: a wall-clock scheduler.
func WithScheduler(s schedule.Scheduler) Option {
	return func(l *Lifecycle) {
		if s != nil {
			l.scheduler = s
		}
	}
}

// WithLogger sets the structured logger. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(l *Lifecycle) {
		if m != nil {
			l.metrics = m
		}
	}
}

// WithSpanManager sets the trace span manager. Default: no-op.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(l *Lifecycle) {
		if sm != nil {
			l.spans = sm
		}
	}
}

// WithFanout sets the notification fan-out.
// Default: a fan-out sharing the lifecycle's logger.
func WithFanout(f *notify.Fanout) Option {
	return func(l *Lifecycle) {
		if f != nil {
			l.fanout = f
		}
	}
}
