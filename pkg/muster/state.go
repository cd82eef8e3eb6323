package muster

import (
	"fmt"
)

// State is one of the seven admissible lifecycle states.
//
// The state graph:
//
//	Valid --publish--> Open --capacity--> Closed --start--> Ongoing --end--> Ended
//	                    |                   |
//	                    +----deadline-----> Failed
//	Valid/Open/Closed --withdraw--> Withdrawn
//
// Ended, Failed, and Withdrawn are terminal.
type State int

// Lifecycle states.
const (
	// StateValid is a proposed event, not yet visible to others.
	StateValid State = iota

	// StateOpen is a published event accepting subscriptions.
	StateOpen

	// StateClosed has reached capacity and waits for its start time.
	StateClosed

	// StateOngoing is a running event.
	StateOngoing

	// StateEnded finished normally. Terminal.
	StateEnded

	// StateFailed did not reach capacity before its registration
	// deadline. Terminal.
	StateFailed

	// StateWithdrawn was cancelled by its creator before starting.
	// Terminal.
	StateWithdrawn
)

var stateNames = map[State]string{
	StateValid:     "valid",
	StateOpen:      "open",
	StateClosed:    "closed",
	StateOngoing:   "ongoing",
	StateEnded:     "ended",
	StateFailed:    "failed",
	StateWithdrawn: "withdrawn",
}

// String returns the state name used in logs, history, and snapshots.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateFailed || s == StateWithdrawn
}

// ParseState converts a state name back to a State.
// Inverse of String; used when loading snapshots.
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown state %q", name)
}

// Trigger identifies what caused a transition attempt.
type Trigger int

// Transition triggers.
const (
	// TriggerPublish is the creator publishing a valid proposal.
	TriggerPublish Trigger = iota

	// TriggerCapacity is the roster reaching capacity plus tolerance.
	TriggerCapacity

	// TriggerDeadline is the registration deadline expiring.
	TriggerDeadline

	// TriggerStart is the start time arriving.
	TriggerStart

	// TriggerEnd is the end time arriving.
	TriggerEnd

	// TriggerWithdraw is the creator cancelling the event.
	TriggerWithdraw
)

var triggerNames = map[Trigger]string{
	TriggerPublish:  "publish",
	TriggerCapacity: "capacity",
	TriggerDeadline: "deadline",
	TriggerStart:    "start",
	TriggerEnd:      "end",
	TriggerWithdraw: "withdraw",
}

// String returns the trigger name used in logs and errors.
func (t Trigger) String() string {
	if name, ok := triggerNames[t]; ok {
		return name
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// transitions is the closed transition table: state x trigger -> next state.
// Anything not listed is an invalid transition. Terminal states have no
// entries at all.
var transitions = map[State]map[Trigger]State{
	StateValid: {
		TriggerPublish:  StateOpen,
		TriggerWithdraw: StateWithdrawn,
	},
	StateOpen: {
		TriggerCapacity: StateClosed,
		TriggerDeadline: StateFailed,
		TriggerWithdraw: StateWithdrawn,
	},
	StateClosed: {
		TriggerStart:    StateOngoing,
		TriggerWithdraw: StateWithdrawn,
	},
	StateOngoing: {
		TriggerEnd: StateEnded,
	},
}

// nextState looks up the transition table.
func nextState(from State, trigger Trigger) (State, bool) {
	row, ok := transitions[from]
	if !ok {
		return 0, false
	}
	to, ok := row[trigger]
	return to, ok
}
