package drivers

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creastat/cart/config"
	"github.com/creastat/cart/session"
)

func TestNewStoreMemory(t *testing.T) {
	s, err := NewStore(context.Background(), StoreTypeMemory)
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, s)
}

func TestNewStoreRedis(t *testing.T) {
	ctx := context.Background()

	_, err := NewStore(ctx, StoreTypeRedis)
	assert.ErrorIs(t, err, session.ErrInvalidConfig)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	t.Cleanup(func() { _ = client.Close() })

	s, err := NewStore(ctx, StoreTypeRedis, WithRedisClient(client), WithKeyPrefix("p:"))
	require.NoError(t, err)
	require.IsType(t, &RedisStore{}, s)
	assert.Equal(t, "p:k", s.(*RedisStore).key("k"))
}

func TestNewStoreDatabase(t *testing.T) {
	ctx := context.Background()

	_, err := NewStore(ctx, StoreTypeDatabase)
	assert.ErrorIs(t, err, session.ErrInvalidConfig)

	s, err := NewStore(ctx, StoreTypeDatabase, WithDatabase(newTestDB(t)), WithTable("carts"))
	require.NoError(t, err)
	assert.IsType(t, &DatabaseStore{}, s)
}

func TestNewStoreUnknownType(t *testing.T) {
	_, err := NewStore(context.Background(), StoreType("etcd"))
	assert.ErrorIs(t, err, session.ErrInvalidStoreType)
}

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	s, err := FromConfig(ctx, config.Default().Session)
	require.NoError(t, err)
	assert.IsType(t, &InMemoryStore{}, s)

	_, err = FromConfig(ctx, config.SessionConfig{Driver: "redis", RedisURL: "::not a url"})
	assert.Error(t, err)

	_, err = FromConfig(ctx, config.SessionConfig{Driver: "bogus"})
	assert.ErrorIs(t, err, session.ErrInvalidStoreType)
}
