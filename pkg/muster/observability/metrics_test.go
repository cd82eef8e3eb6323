package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/randalmurphal/muster/pkg/muster/observability"
)

func TestNewMetricsRecorder_RecordsThroughProvider(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	m := observability.NewMetricsRecorder()

	ctx := context.Background()
	m.RecordTransition(ctx, "open", "closed", "capacity")
	m.RecordGuardRejection(ctx, "closed", "subscribe")
	m.RecordSubscriberCount(ctx, 3)
	m.RecordNotification(ctx, false)
	m.RecordTimerLag(ctx, 5*time.Millisecond)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := make(map[string]bool)
	for _, scope := range rm.ScopeMetrics {
		for _, metric := range scope.Metrics {
			names[metric.Name] = true
		}
	}
	assert.True(t, names["muster.lifecycle.transitions"])
	assert.True(t, names["muster.lifecycle.guard_rejections"])
	assert.True(t, names["muster.roster.size"])
	assert.True(t, names["muster.notify.deliveries"])
	assert.True(t, names["muster.schedule.timer_lag_ms"])
}

func TestNoopMetrics(t *testing.T) {
	// Must be callable without panicking; it records nowhere.
	var m observability.MetricsRecorder = observability.NoopMetrics{}

	ctx := context.Background()
	m.RecordTransition(ctx, "open", "closed", "capacity")
	m.RecordGuardRejection(ctx, "closed", "subscribe")
	m.RecordSubscriberCount(ctx, 1)
	m.RecordNotification(ctx, true)
	m.RecordTimerLag(ctx, -time.Second)
}

func TestNoopSpanManager(t *testing.T) {
	var sm observability.SpanManager = observability.NoopSpanManager{}

	ctx, span := sm.StartTransitionSpan(context.Background(), "evt-1", "open", "capacity")
	assert.NotNil(t, ctx)
	sm.EndSpanWithError(span, nil)

	ctx, span = sm.StartRehydrateSpan(context.Background(), "evt-1")
	assert.NotNil(t, ctx)
	sm.EndSpanWithError(span, assert.AnError)
}
