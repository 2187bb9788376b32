package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// StackStore persists the recovery records of navigation containers.
type StackStore interface {
	// Save persists the records for a given container id.
	Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error

	// Load retrieves the records for a given container id.
	// Returns domain.ErrStackNotFound if nothing was persisted.
	Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error)

	// Delete removes the records for a given container id.
	Delete(ctx context.Context, containerID string) error

	// List returns the container ids with persisted records.
	List(ctx context.Context) ([]string, error)
}
