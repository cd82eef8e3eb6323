// Package store provides persistent snapshot storage for event rehydration.
//
// A Snapshot carries everything needed to reconstruct a lifecycle after a
// restart: state name, field values (including the deadlines that drive
// timers), subscriber order, and history. Re-arming timers from the
// persisted deadlines - and catching up transitions whose deadlines passed
// during downtime - is the engine's job, not the store's.
package store

import (
	"errors"
	"time"
)

// Snapshot is the persisted representation of one event.
type Snapshot struct {
	// EventID uniquely identifies the event.
	EventID string `json:"event_id"`

	// Category is the event's immutable category name.
	Category string `json:"category"`

	// Creator is the name of the proposing user.
	Creator string `json:"creator"`

	// State is the lifecycle state name at save time.
	State string `json:"state"`

	// Fields holds the validated field values. Times are persisted as
	// RFC3339 strings so the snapshot survives a JSON round-trip.
	Fields map[string]any `json:"fields"`

	// Subscribers lists subscriber names in insertion order.
	Subscribers []string `json:"subscribers"`

	// History holds transition messages, most recent first.
	History []string `json:"history,omitempty"`

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time `json:"saved_at"`
}

// Store persists event snapshots for restart recovery.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot, overwriting any previous one for the event.
	Save(snap Snapshot) error

	// Load retrieves the snapshot for an event.
	// Returns ErrNotFound if no snapshot exists.
	Load(eventID string) (Snapshot, error)

	// List returns all snapshots, oldest save first.
	// Returns an empty slice (not an error) when the store is empty.
	List() ([]Snapshot, error)

	// Delete removes an event's snapshot.
	// Returns nil if no snapshot exists.
	Delete(eventID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no snapshot exists for the event.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")
)
