package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const defaultChannelPrefix = "cart:"

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisPublisher publishes events as JSON on a Redis pub/sub channel named
// prefix + event, e.g. "cart:cart.item.added".
type RedisPublisher struct {
	client redisPublisher
	prefix string
	logger zerolog.Logger
}

func NewRedisPublisher(client *redis.Client, prefix string, logger zerolog.Logger) *RedisPublisher {
	return newRedisPublisher(client, prefix, logger)
}

func newRedisPublisher(client redisPublisher, prefix string, logger zerolog.Logger) *RedisPublisher {
	if prefix == "" {
		prefix = defaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix, logger: logger}
}

func (p *RedisPublisher) Dispatch(ctx context.Context, event string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("encoding cart event")
		return
	}
	if err := p.client.Publish(ctx, p.prefix+event, body).Err(); err != nil {
		p.logger.Warn().Err(err).Str("event", event).Msg("publishing cart event to redis")
	}
}
