package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedSnapshot
	seq    int
	closed bool
}

// storedSnapshot holds a snapshot with its save order for List().
type storedSnapshot struct {
	snap Snapshot
	seq  int
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if snap.SavedAt.IsZero() {
		snap.SavedAt = time.Now().UTC()
	}

	m.seq++
	m.data[snap.EventID] = storedSnapshot{snap: cloneSnapshot(snap), seq: m.seq}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(eventID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Snapshot{}, ErrStoreClosed
	}

	stored, ok := m.data[eventID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return cloneSnapshot(stored.snap), nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	stored := make([]storedSnapshot, 0, len(m.data))
	for _, s := range m.data {
		stored = append(stored, s)
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].seq < stored[j].seq
	})

	snaps := make([]Snapshot, 0, len(stored))
	for _, s := range stored {
		snaps = append(snaps, cloneSnapshot(s.snap))
	}
	return snaps, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, eventID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of stored snapshots. Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// cloneSnapshot copies a snapshot so callers cannot mutate stored data.
func cloneSnapshot(s Snapshot) Snapshot {
	out := s
	if s.Fields != nil {
		out.Fields = make(map[string]any, len(s.Fields))
		for k, v := range s.Fields {
			out.Fields[k] = v
		}
	}
	if s.Subscribers != nil {
		out.Subscribers = append([]string(nil), s.Subscribers...)
	}
	if s.History != nil {
		out.History = append([]string(nil), s.History...)
	}
	return out
}
