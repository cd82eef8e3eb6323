package muster

import (
	"context"
	"fmt"
	"time"

	"github.com/randalmurphal/muster/pkg/muster/observability"
	"github.com/randalmurphal/muster/pkg/muster/store"
)

// Snapshot captures everything the store needs to reconstruct this event:
// state name, field values, subscriber order, and history. The outstanding
// timer is not persisted; Rehydrate re-arms it from the field deadlines.
func (l *Lifecycle) Snapshot() store.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs := make([]string, 0, l.subscribers.Len())
	for _, u := range l.subscribers.Members() {
		subs = append(subs, u.Name())
	}

	return store.Snapshot{
		EventID:     l.id,
		Category:    l.category,
		Creator:     l.creator.Name(),
		State:       l.state.String(),
		Fields:      l.fields.Map(),
		Subscribers: subs,
		History:     append([]string(nil), l.history...),
		SavedAt:     time.Now().UTC(),
	}
}

// UserResolver maps a persisted user name back to a live user.
// Snapshots store names only; the user registry is a collaborator's
// concern.
type UserResolver func(name string) (*User, bool)

// Rehydrate reconstructs a lifecycle from a snapshot and re-arms its
// deadline timer from the persisted field values. Wall-clock time that
// passed while the process was down is real: any transition whose
// deadline already elapsed is applied synchronously before Rehydrate
// returns, so callers never expose an event that is behind its own
// deadlines.
func Rehydrate(snap store.Snapshot, resolve UserResolver, opts ...Option) (*Lifecycle, error) {
	state, err := ParseState(snap.State)
	if err != nil {
		return nil, fmt.Errorf("rehydrate %s: %w", snap.EventID, err)
	}

	creator, ok := resolve(snap.Creator)
	if !ok {
		return nil, fmt.Errorf("rehydrate %s: unknown creator %q", snap.EventID, snap.Creator)
	}

	l := New(snap.Category, creator, NewFieldValues(snap.Fields), append(opts, WithID(snap.EventID))...)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = state
	l.history = append([]string(nil), snap.History...)
	for _, name := range snap.Subscribers {
		u, ok := resolve(name)
		if !ok {
			return nil, fmt.Errorf("rehydrate %s: unknown subscriber %q", snap.EventID, name)
		}
		if err := l.subscribers.Add(u); err != nil {
			return nil, fmt.Errorf("rehydrate %s: subscriber %q: %w", snap.EventID, name, err)
		}
	}

	ctx, span := l.spans.StartRehydrateSpan(context.Background(), l.id)
	err = l.enterLocked(ctx)
	l.spans.EndSpanWithError(span, err)
	if err != nil {
		return nil, fmt.Errorf("rehydrate %s: %w", snap.EventID, err)
	}

	observability.LogRehydrate(l.logger, l.id, snap.State, l.state.String())
	return l, nil
}

// LoadBoard rehydrates every snapshot in the store onto a fresh board.
// Catch-up transitions run inside Rehydrate, before each event is listed.
func LoadBoard(st store.Store, resolve UserResolver, opts ...Option) (*Board, error) {
	snaps, err := st.List()
	if err != nil {
		return nil, fmt.Errorf("load board: %w", err)
	}

	board := NewBoard()
	for _, snap := range snaps {
		evt, err := Rehydrate(snap, resolve, opts...)
		if err != nil {
			return nil, err
		}
		board.Restore(evt)
	}
	return board, nil
}
