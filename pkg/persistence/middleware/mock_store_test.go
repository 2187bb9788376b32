package middleware_test

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// MockStore is a simple map-based store for testing middleware.
type MockStore struct {
	data map[string][]domain.RecoveryRecord
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]domain.RecoveryRecord),
	}
}

func (s *MockStore) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	s.data[containerID] = records
	return nil
}

func (s *MockStore) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	records, ok := s.data[containerID]
	if !ok {
		return nil, domain.ErrStackNotFound
	}
	return records, nil
}

func (s *MockStore) Delete(ctx context.Context, containerID string) error {
	delete(s.data, containerID)
	return nil
}

func (s *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys, nil
}

var _ ports.StackStore = (*MockStore)(nil)
