package schedule

import (
	"sync"
	"time"
)

// Manual is a scheduler with a virtual clock for deterministic testing.
// Time only moves when Advance or AdvanceTo is called; due callbacks run
// synchronously on the advancing goroutine, in deadline order. A deadline
// at or before the virtual now is queued as already due and fires on the
// next Advance or AdvanceTo call, never inside Schedule itself.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	entries []*manualEntry
	nextSeq int
}

type manualEntry struct {
	at        time.Time
	seq       int
	fn        func()
	cancelled bool
}

// NewManual creates a manual scheduler with its clock set to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Schedule implements Scheduler. fn never runs on the calling goroutine:
// a past deadline is queued as due and fires on the next Advance or
// AdvanceTo call. Callers arm timers while holding locks that their
// callbacks re-acquire; firing here would deadlock them.
func (m *Manual) Schedule(at time.Time, fn func()) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := &manualEntry{at: at, seq: m.nextSeq, fn: fn}
	m.nextSeq++
	m.entries = append(m.entries, e)
	return &manualHandle{m: m, entry: e}, nil
}

// Now implements Scheduler.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d, firing due callbacks in deadline
// order. Callbacks run synchronously; callbacks that schedule new work
// due within the same window are fired too.
func (m *Manual) Advance(d time.Duration) {
	m.AdvanceTo(m.Now().Add(d))
}

// AdvanceTo moves the clock to t, firing due callbacks in deadline order.
func (m *Manual) AdvanceTo(t time.Time) {
	for {
		m.mu.Lock()
		if t.After(m.now) {
			m.now = t
		}

		next := m.popDue()
		m.mu.Unlock()

		if next == nil {
			return
		}
		next.fn()
	}
}

// popDue removes and returns the earliest due entry, or nil.
// Caller holds m.mu.
func (m *Manual) popDue() *manualEntry {
	var due *manualEntry
	idx := -1
	for i, e := range m.entries {
		if e.cancelled || e.at.After(m.now) {
			continue
		}
		if due == nil || e.at.Before(due.at) || (e.at.Equal(due.at) && e.seq < due.seq) {
			due = e
			idx = i
		}
	}
	if due == nil {
		return nil
	}
	m.entries = append(m.entries[:idx], m.entries[idx+1:]...)
	return due
}

// Pending returns the number of armed, uncancelled callbacks.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range m.entries {
		if !e.cancelled {
			n++
		}
	}
	return n
}

// manualHandle cancels a pending entry. Cancelling after the entry fired
// marks an orphan and has no effect.
type manualHandle struct {
	m     *Manual
	entry *manualEntry
}

func (h *manualHandle) Cancel() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	h.entry.cancelled = true
}
