// Package observability provides production-grade observability features
// for muster: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds lifecycle context to a logger.
// Returns a new logger with event_id and category fields.
func EnrichLogger(logger *slog.Logger, eventID, category string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event_id", eventID),
		slog.String("category", category),
	)
}

// LogTransition logs a successfully applied state transition and how long
// applying it took. Pair with TimedOperation.
func LogTransition(logger *slog.Logger, eventID, from, to, trigger string, elapsedMs float64) {
	if logger == nil {
		return
	}
	logger.Info("state transition",
		slog.String("event_id", eventID),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("trigger", trigger),
		slog.Float64("elapsed_ms", elapsedMs),
	)
}

// LogTransitionDenied logs a guard rejection.
func LogTransitionDenied(logger *slog.Logger, eventID, state, trigger string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("transition denied",
		slog.String("event_id", eventID),
		slog.String("state", state),
		slog.String("trigger", trigger),
		slog.String("error", err.Error()),
	)
}

// LogTimerArmed logs a deadline timer being armed.
func LogTimerArmed(logger *slog.Logger, eventID, state string, at time.Time) {
	if logger == nil {
		return
	}
	logger.Debug("timer armed",
		slog.String("event_id", eventID),
		slog.String("state", state),
		slog.Time("deadline", at),
	)
}

// LogTimerFired logs a deadline timer firing.
func LogTimerFired(logger *slog.Logger, eventID, state string) {
	if logger == nil {
		return
	}
	logger.Debug("timer fired",
		slog.String("event_id", eventID),
		slog.String("state", state),
	)
}

// LogTimerStale logs a late-firing cancelled timer being discarded.
func LogTimerStale(logger *slog.Logger, eventID string) {
	if logger == nil {
		return
	}
	logger.Debug("stale timer discarded",
		slog.String("event_id", eventID),
	)
}

// LogSchedulingFailure logs a timer that could not be armed (non-recoverable
// for the event; the caller forces the event toward its terminal state).
func LogSchedulingFailure(logger *slog.Logger, eventID, state string, at time.Time, err error) {
	if logger == nil {
		return
	}
	logger.Error("failed to arm timer",
		slog.String("event_id", eventID),
		slog.String("state", state),
		slog.Time("deadline", at),
		slog.String("error", err.Error()),
	)
}

// LogSubscription logs a subscriber joining.
func LogSubscription(logger *slog.Logger, eventID, user string, count int) {
	if logger == nil {
		return
	}
	logger.Info("subscriber added",
		slog.String("event_id", eventID),
		slog.String("user", user),
		slog.Int("count", count),
	)
}

// LogUnsubscription logs a subscriber leaving.
func LogUnsubscription(logger *slog.Logger, eventID, user string, count int) {
	if logger == nil {
		return
	}
	logger.Info("subscriber removed",
		slog.String("event_id", eventID),
		slog.String("user", user),
		slog.Int("count", count),
	)
}

// LogRehydrate logs an event being reconstructed from a snapshot.
func LogRehydrate(logger *slog.Logger, eventID, persisted, current string) {
	if logger == nil {
		return
	}
	logger.Info("event rehydrated",
		slog.String("event_id", eventID),
		slog.String("persisted_state", persisted),
		slog.String("current_state", current),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
