package muster_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/randalmurphal/muster/pkg/muster"
)

func TestFieldValues_TypedAccessors(t *testing.T) {
	start := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	f := muster.NewFieldValues(map[string]any{
		"title":    "ridge trail",
		"capacity": 5,
		"start":    start,
		"pace":     10 * time.Minute,
	})

	assert.Equal(t, "ridge trail", f.String("title", ""))
	assert.Equal(t, 5, f.Int("capacity", 0))
	assert.True(t, f.Time("start").Equal(start))
	assert.Equal(t, 10*time.Minute, f.Duration("pace", 0))
}

func TestFieldValues_Defaults(t *testing.T) {
	f := muster.NewFieldValues(nil)

	assert.Equal(t, "fallback", f.String("title", "fallback"))
	assert.Equal(t, 3, f.Int("capacity", 3))
	assert.True(t, f.Time("start").IsZero())
	assert.Equal(t, time.Minute, f.Duration("pace", time.Minute))
}

func TestFieldValues_RoundTrippedForms(t *testing.T) {
	// JSON decoding turns ints into float64 and times into strings.
	f := muster.NewFieldValues(map[string]any{
		"capacity": float64(5),
		"start":    "2026-06-02T00:00:00Z",
		"pace":     "12m",
	})

	assert.Equal(t, 5, f.Int("capacity", 0))
	assert.Equal(t, time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), f.Time("start"))
	assert.Equal(t, 12*time.Minute, f.Duration("pace", 0))
}

func TestFieldValues_WrongTypeFallsBack(t *testing.T) {
	f := muster.NewFieldValues(map[string]any{
		"capacity": "five",
		"start":    "not a time",
	})

	assert.Equal(t, 0, f.Int("capacity", 0))
	assert.True(t, f.Time("start").IsZero())
}

func TestFieldValues_Map(t *testing.T) {
	start := time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC)
	f := muster.NewFieldValues(map[string]any{
		"title": "ridge trail",
		"start": start,
		"pace":  10 * time.Minute,
	})

	m := f.Map()
	assert.Equal(t, "ridge trail", m["title"])
	assert.Equal(t, "2026-06-02T00:00:00Z", m["start"])
	assert.Equal(t, "10m0s", m["pace"])
}

func TestFieldValues_UnsubscribeDeadlineFallback(t *testing.T) {
	reg := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	f := muster.NewFieldValues(map[string]any{
		"registration_deadline": reg,
	})

	// Falls back to the registration deadline when unset.
	assert.True(t, f.UnsubscribeDeadline().Equal(reg))

	unsub := reg.Add(-12 * time.Hour)
	g := muster.NewFieldValues(map[string]any{
		"registration_deadline": reg,
		"unsubscribe_deadline":  unsub,
	})
	assert.True(t, g.UnsubscribeDeadline().Equal(unsub))
}

func TestFieldValues_Tolerance(t *testing.T) {
	f := muster.NewFieldValues(map[string]any{"capacity": 5})
	assert.Equal(t, 0, f.Tolerance())

	g := muster.NewFieldValues(map[string]any{"capacity": 5, "tolerance": 2})
	assert.Equal(t, 2, g.Tolerance())
}
