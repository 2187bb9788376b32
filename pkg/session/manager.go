package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/wayfinder/internal/logging"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager serializes access to persisted navigation stacks, one lock per
// container id. It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.StackStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry requested for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Manager backed by the given stack store.
func NewManager(store ports.StackStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(containerID) after unlocking.
func (m *Manager) acquire(containerID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[containerID]
	if !exists {
		entry = &lockEntry{}
		m.locks[containerID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(containerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[containerID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, containerID)
	}
}

// Load retrieves the persisted records of a container.
func (m *Manager) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	var records []domain.RecoveryRecord
	err := m.WithLock(ctx, containerID, func(ctx context.Context) error {
		var err error
		records, err = m.store.Load(ctx, containerID)
		return err
	})
	return records, err
}

// LoadOrInit loads the records of a container. If none exist, seed is
// persisted and returned.
func (m *Manager) LoadOrInit(ctx context.Context, containerID string, seed []domain.RecoveryRecord) ([]domain.RecoveryRecord, error) {
	var records []domain.RecoveryRecord
	err := m.WithLock(ctx, containerID, func(ctx context.Context) error {
		var err error
		records, err = m.store.Load(ctx, containerID)
		if err == nil {
			return nil
		}

		if !errors.Is(err, domain.ErrStackNotFound) {
			return fmt.Errorf("failed to check stack existence: %w", err)
		}

		records = seed
		if err := m.store.Save(ctx, containerID, seed); err != nil {
			return fmt.Errorf("failed to initialize stack: %w", err)
		}
		return nil
	})
	return records, err
}

// Update runs a read-modify-write cycle on a container's records under its
// lock. fn receives nil when nothing was persisted yet.
func (m *Manager) Update(ctx context.Context, containerID string, fn func([]domain.RecoveryRecord) ([]domain.RecoveryRecord, error)) error {
	return m.WithLock(ctx, containerID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, containerID)
		if err != nil && !errors.Is(err, domain.ErrStackNotFound) {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, containerID, next)
	})
}

// Save persists the records of a container.
func (m *Manager) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	return m.WithLock(ctx, containerID, func(ctx context.Context) error {
		return m.store.Save(ctx, containerID, records)
	})
}

// Delete removes the container's records from the store.
func (m *Manager) Delete(ctx context.Context, containerID string) error {
	return m.WithLock(ctx, containerID, func(ctx context.Context) error {
		return m.store.Delete(ctx, containerID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying stack store.
func (m *Manager) Store() ports.StackStore {
	return m.store
}

// WithLock executes a function while holding the lock for the container.
func (m *Manager) WithLock(ctx context.Context, containerID string, fn func(context.Context) error) error {
	entry := m.acquire(containerID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(containerID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, containerID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"container_id", containerID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
