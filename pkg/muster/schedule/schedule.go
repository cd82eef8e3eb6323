// Package schedule provides deadline-based callback scheduling for the
// lifecycle engine.
//
// A Scheduler arms a callback to fire at an absolute instant and hands back a
// cancellable Handle. Cancellation is idempotent: cancelling a handle whose
// callback already fired, or cancelling twice, is a no-op. A callback may
// still fire once after a cancel that raced with it, so callers that care
// must guard against stale fires themselves.
//
// Two implementations ship with the package:
//   - Wall: real wall-clock timers backed by time.AfterFunc
//   - Manual: a virtual clock advanced explicitly, for deterministic tests
package schedule

import (
	"time"
)

// Handle represents an armed callback that can be cancelled.
type Handle interface {
	// Cancel disarms the callback. Safe to call multiple times and after
	// the callback has fired.
	Cancel()
}

// Scheduler arms callbacks to fire at absolute instants.
// Implementations must be safe for concurrent use.
type Scheduler interface {
	// Schedule arms fn to run once at or after the given instant.
	// An instant in the past fires fn as soon as possible. fn must
	// never run on the calling goroutine during Schedule itself:
	// callers may hold locks that fn needs.
	Schedule(at time.Time, fn func()) (Handle, error)

	// Now reports the scheduler's current time. Wall-clock schedulers
	// return time.Now(); virtual schedulers return their own clock.
	Now() time.Time
}

// Wall schedules callbacks against the real wall clock.
// The zero value is ready to use.
type Wall struct{}

// NewWall creates a wall-clock scheduler.
func NewWall() *Wall {
	return &Wall{}
}

// Schedule implements Scheduler. Callbacks run on their own goroutine.
func (w *Wall) Schedule(at time.Time, fn func()) (Handle, error) {
	return &wallHandle{timer: time.AfterFunc(time.Until(at), fn)}, nil
}

// Now implements Scheduler.
func (w *Wall) Now() time.Time {
	return time.Now()
}

// wallHandle wraps a time.Timer. Stop is already idempotent.
type wallHandle struct {
	timer *time.Timer
}

func (h *wallHandle) Cancel() {
	h.timer.Stop()
}
