package drivers

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/cart/config"
	"github.com/creastat/cart/session"
)

// StoreType represents the type of session store.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeRedis    StoreType = "redis"
	StoreTypeDatabase StoreType = "database"
)

// NewStore creates a new session.Store based on the given type.
// For Redis, requires WithRedisClient option.
// For database, requires WithDatabase option.
func NewStore(ctx context.Context, storeType StoreType, opts ...StoreOption) (session.Store, error) {
	cfg := &storeConfig{}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	switch storeType {
	case StoreTypeMemory:
		return NewInMemoryStore(), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, session.ErrInvalidConfig
		}
		return NewRedisStore(cfg.redisClient, cfg.keyPrefix, cfg.redisTTL), nil

	case StoreTypeDatabase:
		if cfg.db == nil {
			return nil, session.ErrInvalidConfig
		}
		return NewDatabaseStore(ctx, cfg.db, cfg.table)

	default:
		return nil, session.ErrInvalidStoreType
	}
}

// FromConfig opens the backing connection described by cfg and returns the store.
func FromConfig(ctx context.Context, cfg config.SessionConfig) (session.Store, error) {
	switch StoreType(cfg.Driver) {
	case StoreTypeMemory:
		return NewStore(ctx, StoreTypeMemory)

	case StoreTypeRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewStore(ctx, StoreTypeRedis,
			WithRedisClient(client),
			WithKeyPrefix(cfg.KeyPrefix),
			WithRedisTTL(cfg.RedisTTL),
		)

	case StoreTypeDatabase:
		db, err := OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return NewStore(ctx, StoreTypeDatabase, WithDatabase(db), WithTable(cfg.Table))

	default:
		return nil, session.ErrInvalidStoreType
	}
}
