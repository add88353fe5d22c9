package drivers

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// StoreOption is a functional option for configuring a session store.
type StoreOption func(*storeConfig)

// storeConfig holds configuration for session stores.
type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
	keyPrefix   string
	db          *gorm.DB
	table       string
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// WithKeyPrefix sets the prefix prepended to every Redis key.
func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) {
		c.keyPrefix = prefix
	}
}

// WithDatabase sets the gorm connection for the database store.
func WithDatabase(db *gorm.DB) StoreOption {
	return func(c *storeConfig) {
		c.db = db
	}
}

// WithTable sets the table used by the database store.
func WithTable(table string) StoreOption {
	return func(c *storeConfig) {
		c.table = table
	}
}
