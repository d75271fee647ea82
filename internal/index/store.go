package index

import "sync/atomic"

// Store publishes built snapshots to concurrent readers. Readers always see
// either the previously published snapshot or the new one, never a partially
// built index.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store with no published snapshot.
func NewStore() *Store {
	return &Store{}
}

// Publish atomically swaps in a completed snapshot.
func (s *Store) Publish(snapshot *Snapshot) {
	s.current.Store(snapshot)
}

// Current returns the most recently published snapshot, or nil when no
// document has been indexed yet.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}
