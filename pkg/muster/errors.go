// Package muster implements an event lifecycle engine for time-bound group activities.
package muster

import (
	"errors"
	"fmt"
)

// Sentinel errors for lifecycle operations.
var (
	// ErrInvalidTransition indicates an operation not permitted by the
	// current state. Always recoverable: present a message and move on.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrDuplicateSubscription indicates the user is already subscribed.
	ErrDuplicateSubscription = errors.New("already subscribed")

	// ErrNotSubscribed indicates the user is not subscribed.
	ErrNotSubscribed = errors.New("not subscribed")

	// ErrNotCreator indicates an operation reserved for the creator.
	ErrNotCreator = errors.New("caller is not the creator")

	// ErrCreatorSubscription indicates the creator tried to leave their
	// own event; withdrawal is the only way out for a creator.
	ErrCreatorSubscription = errors.New("creator cannot unsubscribe")

	// ErrUnsubscribeDeadline indicates the unsubscription window closed.
	ErrUnsubscribeDeadline = errors.New("unsubscription deadline passed")

	// ErrSchedulingFailure indicates a deadline timer could not be armed.
	// Fatal for the event: it is forced toward its natural terminal state.
	ErrSchedulingFailure = errors.New("failed to schedule deadline")

	// ErrNilUser indicates a nil user was passed to an operation.
	ErrNilUser = errors.New("user cannot be nil")

	// ErrNilEvent indicates a nil event was passed to the board.
	ErrNilEvent = errors.New("event cannot be nil")
)

// TransitionError wraps a rejected lifecycle operation with its context.
type TransitionError struct {
	// EventID is the event the operation targeted.
	EventID string
	// State is the state the event was in when the operation was rejected.
	State State
	// Op is the attempted operation ("publish", "subscribe", ...).
	Op string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %s: %s not allowed in state %s: %v", e.EventID, e.Op, e.State, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TransitionError) Unwrap() error {
	return e.Err
}
