package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/wayfinder/internal/adapters/file"
	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/pkg/adapters/memory"
	"github.com/aretw0/wayfinder/pkg/adapters/redis"
	"github.com/aretw0/wayfinder/pkg/persistence/middleware"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/aretw0/wayfinder/pkg/session"
)

// Backend is an opened stack store with the session options it needs.
type Backend struct {
	Store       ports.StackStore
	SessionOpts []session.Option
	close       func() error
}

// Close releases the underlying connection, if any.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore builds the stack store described by cfg. Redaction is the outer
// layer so params are masked before they are sealed.
func OpenStore(cfg config.StoreConfig, logger *slog.Logger) (*Backend, error) {
	b := &Backend{SessionOpts: []session.Option{session.WithLogger(logger)}}

	// 1. Backend
	switch cfg.Kind {
	case config.StoreMemory, "":
		b.Store = memory.NewStore()
	case config.StoreFile:
		b.Store = file.New(cfg.Path)
	case config.StoreRedis:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		opts := []redis.Option{redis.WithPrefix(prefix)}
		if cfg.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.TTL))
		}
		rs := redis.New(cfg.Addr, "", 0, opts...)
		b.Store = rs
		b.close = rs.Close
		b.SessionOpts = append(b.SessionOpts, session.WithLocker(redis.NewLocker(rs.Client(), prefix)))
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
	}

	// 2. Middleware
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(cfg.Redact))
	}
	key, err := cfg.Key()
	if err != nil {
		b.Close()
		return nil, err
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	b.Store = middleware.Chain(b.Store, mws...)

	logger.Debug("Stack store opened", "kind", cfg.Kind, "encrypted", key != nil, "redact", len(cfg.Redact))
	return b, nil
}
