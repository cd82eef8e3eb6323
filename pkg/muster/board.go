package muster

import (
	"sync"
)

// Board is a query facade over a collection of lifecycles. Adding an event
// publishes it; removing one is gated on a successful withdrawal. All query
// methods are pure filters: the invariants live in the lifecycles
// themselves.
type Board struct {
	mu     sync.RWMutex
	events []*Lifecycle
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Add publishes the event and lists it on the board.
// If publishing fails the board is unchanged.
func (b *Board) Add(evt *Lifecycle) error {
	if evt == nil {
		return ErrNilEvent
	}
	if err := evt.Publish(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
	return nil
}

// Restore lists an already-published (rehydrated) event without
// publishing it again.
func (b *Board) Restore(evt *Lifecycle) {
	if evt == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

// Remove withdraws the event and delists it.
// If the withdrawal fails the event stays on the board.
func (b *Board) Remove(evt *Lifecycle, caller *User) error {
	if err := evt.Withdraw(caller); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.events {
		if e == evt {
			b.events = append(b.events[:i], b.events[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of listed events.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.events)
}

// All returns every listed event in listing order.
func (b *Board) All() []*Lifecycle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*Lifecycle(nil), b.events...)
}

// ByState returns the events currently in the given state.
func (b *Board) ByState(s State) []*Lifecycle {
	return b.filter(func(e *Lifecycle) bool {
		return e.State() == s
	})
}

// ByCreator returns the events proposed by the given user.
func (b *Board) ByCreator(u *User) []*Lifecycle {
	return b.filter(func(e *Lifecycle) bool {
		return e.Creator() == u
	})
}

// SubscribedBy returns the events the user subscribes to, excluding the
// ones they created.
func (b *Board) SubscribedBy(u *User) []*Lifecycle {
	return b.filter(func(e *Lifecycle) bool {
		if e.Creator() == u {
			return false
		}
		for _, s := range e.Subscribers() {
			if s == u {
				return true
			}
		}
		return false
	})
}

// PastParticipants returns the distinct users who took part in the
// creator's ended events, excluding the creator, in order of first
// appearance. Used for re-invitations.
func (b *Board) PastParticipants(creator *User) []*User {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[*User]struct{})
	var out []*User
	for _, e := range b.events {
		if e.Creator() != creator || e.State() != StateEnded {
			continue
		}
		for _, u := range e.Subscribers() {
			if u == creator {
				continue
			}
			if _, dup := seen[u]; dup {
				continue
			}
			seen[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}

func (b *Board) filter(keep func(*Lifecycle) bool) []*Lifecycle {
	b.mu.RLock()
	events := append([]*Lifecycle(nil), b.events...)
	b.mu.RUnlock()

	var out []*Lifecycle
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
