package observability_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/muster/pkg/muster/observability"
)

// captureLogger returns a debug-level JSON logger writing into buf.
func captureLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// lastRecord decodes the final JSON log line in buf.
func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &rec))
	return rec
}

func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.EnrichLogger(captureLogger(&buf), "evt-1", "hike")

	logger.Info("hello")

	rec := lastRecord(t, &buf)
	assert.Equal(t, "evt-1", rec["event_id"])
	assert.Equal(t, "hike", rec["category"])
}

func TestEnrichLogger_Nil(t *testing.T) {
	assert.Nil(t, observability.EnrichLogger(nil, "evt-1", "hike"))
}

func TestLogTransition(t *testing.T) {
	var buf bytes.Buffer
	done := observability.TimedOperation()
	observability.LogTransition(captureLogger(&buf), "evt-1", "open", "closed", "capacity", done())

	rec := lastRecord(t, &buf)
	assert.Equal(t, "state transition", rec["msg"])
	assert.Equal(t, "open", rec["from"])
	assert.Equal(t, "closed", rec["to"])
	assert.Equal(t, "capacity", rec["trigger"])

	elapsed, ok := rec["elapsed_ms"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, float64(0))
}

func TestLogTransitionDenied(t *testing.T) {
	var buf bytes.Buffer
	observability.LogTransitionDenied(captureLogger(&buf), "evt-1", "ended", "subscribe", errors.New("invalid transition"))

	rec := lastRecord(t, &buf)
	assert.Equal(t, "transition denied", rec["msg"])
	assert.Equal(t, "ended", rec["state"])
	assert.Equal(t, "invalid transition", rec["error"])
}

func TestLogSchedulingFailure(t *testing.T) {
	var buf bytes.Buffer
	at := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	observability.LogSchedulingFailure(captureLogger(&buf), "evt-1", "open", at, errors.New("queue full"))

	rec := lastRecord(t, &buf)
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "failed to arm timer", rec["msg"])
}

func TestLogHelpers_NilLoggerIsSafe(t *testing.T) {
	// Every helper must tolerate a nil logger; logging is optional.
	observability.LogTransition(nil, "evt-1", "a", "b", "t", 0)
	observability.LogTransitionDenied(nil, "evt-1", "a", "t", errors.New("x"))
	observability.LogTimerArmed(nil, "evt-1", "a", time.Now())
	observability.LogTimerFired(nil, "evt-1", "a")
	observability.LogTimerStale(nil, "evt-1")
	observability.LogSchedulingFailure(nil, "evt-1", "a", time.Now(), errors.New("x"))
	observability.LogSubscription(nil, "evt-1", "bob", 1)
	observability.LogUnsubscription(nil, "evt-1", "bob", 0)
	observability.LogRehydrate(nil, "evt-1", "open", "failed")
}

func TestTimedOperation(t *testing.T) {
	done := observability.TimedOperation()
	elapsed := done()
	assert.GreaterOrEqual(t, elapsed, float64(0))
}
