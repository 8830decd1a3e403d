package store

import (
	"context"
	"sync"

	"github.com/optiondata/chaincache/internal/model"
)

// MemoryStore is an in-process append-only store. Readers and the single
// writer may run concurrently; the latest pointer swaps atomically under
// the lock, so a reader never observes a half-built snapshot.
type MemoryStore struct {
	mu     sync.RWMutex
	snaps  []*model.Snapshot
	latest *model.Snapshot
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append records a new snapshot.
func (s *MemoryStore) Append(ctx context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps = append(s.snaps, snap)
	if s.latest == nil || snap.TakenAt.After(s.latest.TakenAt) {
		s.latest = snap
	}
	return nil
}

// Latest returns the snapshot with the greatest TakenAt.
func (s *MemoryStore) Latest(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return nil, ErrEmpty
	}
	return s.latest, nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}
