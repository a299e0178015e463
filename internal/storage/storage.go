package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"navsession/internal/config"
	"navsession/internal/navigation"
)

// ErrInvalidTTL is returned by RefreshExpiry for a non-positive TTL.
var ErrInvalidTTL = errors.New("ttl must be positive")

// Backend is a navigation.Store with the lifecycle and inspection calls the
// server and CLI need.
type Backend interface {
	navigation.Store
	TTL(ctx context.Context, key string) (time.Duration, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open builds the backend selected by cfg
func Open(ctx context.Context, cfg config.StoreConfig, redisCfg config.RedisConfig) (Backend, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return NewRedisStore(ctx, redisCfg.URL)
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
