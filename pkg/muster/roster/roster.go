// Package roster provides an ordered membership set for event subscribers.
//
// A Roster remembers insertion order, which the notification fan-out relies
// on for deterministic delivery. It is a pure data structure: admission
// policy (capacity, tolerance) is the lifecycle's concern, never the
// roster's.
//
// Roster is not safe for concurrent use; the owning lifecycle serializes
// access under its own lock.
package roster

import (
	"errors"
)

// Sentinel errors for membership operations.
var (
	// ErrAlreadyMember indicates Add was called with an existing member.
	ErrAlreadyMember = errors.New("already a member")

	// ErrNotMember indicates Remove was called with an unknown member.
	ErrNotMember = errors.New("not a member")
)

// Roster is an insertion-ordered set of members.
type Roster[T comparable] struct {
	members []T
	index   map[T]struct{}
}

// New creates an empty roster.
func New[T comparable]() *Roster[T] {
	return &Roster[T]{
		index: make(map[T]struct{}),
	}
}

// Add appends a member. Returns ErrAlreadyMember if present.
func (r *Roster[T]) Add(member T) error {
	if _, ok := r.index[member]; ok {
		return ErrAlreadyMember
	}
	r.index[member] = struct{}{}
	r.members = append(r.members, member)
	return nil
}

// Remove deletes a member, preserving the order of the rest.
// Returns ErrNotMember if absent.
func (r *Roster[T]) Remove(member T) error {
	if _, ok := r.index[member]; !ok {
		return ErrNotMember
	}
	delete(r.index, member)
	for i, m := range r.members {
		if m == member {
			r.members = append(r.members[:i], r.members[i+1:]...)
			break
		}
	}
	return nil
}

// Contains reports whether member is in the roster.
func (r *Roster[T]) Contains(member T) bool {
	_, ok := r.index[member]
	return ok
}

// Len returns the number of members.
func (r *Roster[T]) Len() int {
	return len(r.members)
}

// Members returns the members in insertion order.
// The returned slice is a copy.
func (r *Roster[T]) Members() []T {
	out := make([]T, len(r.members))
	copy(out, r.members)
	return out
}
