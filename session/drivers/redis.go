package drivers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/creastat/cart/session"
)

const (
	// Redis key prefix for sessions
	sessionKeyPrefix = "session:"
	// Default TTL for session keys (24 hours)
	defaultTTL = 24 * time.Hour
)

// cmdable is the subset of the go-redis client used by RedisStore.
type cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Close() error
}

// RedisStore implements session.Store using Redis string keys with a TTL.
type RedisStore struct {
	client cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-based session store.
// An empty prefix falls back to "session:", a non-positive ttl to 24 hours.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return newRedisStore(client, prefix, ttl)
}

func newRedisStore(client cmdable, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = sessionKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get implements session.Store.
// Returns nil if the key is not found (not an error).
// Refreshes TTL on every read.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	k := s.key(key)
	val, err := s.client.Get(ctx, k).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}

	// Refresh TTL on read; a failed refresh does not fail the read
	_ = s.client.Expire(ctx, k, s.ttl).Err()

	return val, nil
}

// Put implements session.Store.
func (s *RedisStore) Put(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

// Has implements session.Store.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Remove implements session.Store.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

// Close implements session.Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// key constructs the Redis key for a session key.
func (s *RedisStore) key(key string) string {
	return s.prefix + key
}

// Compile-time check that RedisStore implements session.Store.
var _ session.Store = (*RedisStore)(nil)
