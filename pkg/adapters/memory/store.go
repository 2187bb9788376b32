package memory

import (
	"context"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Store implements ports.StackStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]domain.RecoveryRecord
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]domain.RecoveryRecord),
	}
}

// Save persists the records in memory.
func (s *Store) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	// Copy so later mutations by the caller do not leak into the store
	copied := append([]domain.RecoveryRecord(nil), records...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[containerID] = copied
	return nil
}

// Load retrieves the records from memory.
func (s *Store) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, ok := s.data[containerID]
	if !ok {
		return nil, domain.ErrStackNotFound
	}
	return append([]domain.RecoveryRecord(nil), records...), nil
}

// Delete removes the records.
func (s *Store) Delete(ctx context.Context, containerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, containerID)
	return nil
}

// List returns the containers with persisted records.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
