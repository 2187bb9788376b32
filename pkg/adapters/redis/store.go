package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/wayfinder/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "wayfinder:stack:"

// farFuture is the index score of stacks without expiry (2100-01-01).
const farFuture = 4102444800

// Store implements ports.StackStore using Redis. Each container's records are
// one JSON value; a sorted set indexes container ids by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration for persisted stacks.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithClock overrides the clock used to score the expiry index.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(containerID string) string {
	return s.prefix + containerID
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the records to Redis.
func (s *Store) Save(ctx context.Context, containerID string, records []domain.RecoveryRecord) error {
	if records == nil {
		records = []domain.RecoveryRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	score := float64(s.now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(containerID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: containerID,
	})

	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the records from Redis.
func (s *Store) Load(ctx context.Context, containerID string) ([]domain.RecoveryRecord, error) {
	val, err := s.client.Get(ctx, s.key(containerID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrStackNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var records []domain.RecoveryRecord
	if err := json.Unmarshal(val, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal records: %w", err)
	}
	return records, nil
}

// Delete removes the stack and its index entry.
func (s *Store) Delete(ctx context.Context, containerID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(containerID))
	pipe.ZRem(ctx, s.indexKey(), containerID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the container ids whose stacks have not expired. Expired index
// entries are pruned lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(s.now().Unix())

	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired stacks: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list stacks: %w", err)
	}
	return ids, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
