package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/session"
)

// StackOptions selects the configuration for the stack commands.
type StackOptions struct {
	ConfigPath string
	Debug      bool
}

func openSessions(opts StackOptions) (*session.Manager, *Backend, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logger := createLogger(cfg.Log, opts.Debug)
	backend, err := OpenStore(cfg.Store, logger)
	if err != nil {
		return nil, nil, err
	}
	return session.NewManager(backend.Store, backend.SessionOpts...), backend, nil
}

// ListStacks returns the ids of every persisted stack.
func ListStacks(ctx context.Context, opts StackOptions) ([]string, error) {
	m, backend, err := openSessions(opts)
	if err != nil {
		return nil, err
	}
	defer backend.Close()
	return m.List(ctx)
}

// InspectStack returns the recovery records persisted for id.
func InspectStack(ctx context.Context, opts StackOptions, id string) ([]domain.RecoveryRecord, error) {
	m, backend, err := openSessions(opts)
	if err != nil {
		return nil, err
	}
	defer backend.Close()

	records, err := m.Load(ctx, id)
	if errors.Is(err, domain.ErrStackNotFound) {
		return nil, fmt.Errorf("%w: '%s'", domain.ErrStackNotFound, id)
	}
	return records, err
}

// RemoveStack deletes the stack persisted for id.
func RemoveStack(ctx context.Context, opts StackOptions, id string) error {
	m, backend, err := openSessions(opts)
	if err != nil {
		return err
	}
	defer backend.Close()
	return m.Delete(ctx, id)
}
