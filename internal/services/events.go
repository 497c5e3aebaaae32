package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"treasuremap-backend/internal/models"
)

// EventPublisher receives one event per relay invocation. Implementations
// must not block the relay on failure.
type EventPublisher interface {
	Publish(ctx context.Context, event models.RelayEvent)
}

// NopEventPublisher drops every event.
type NopEventPublisher struct{}

func (NopEventPublisher) Publish(context.Context, models.RelayEvent) {}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisEventPublisher sends relay events over Redis pub/sub.
type RedisEventPublisher struct {
	redis   redisPublisher
	channel string
	logger  *zap.Logger
}

func NewRedisEventPublisher(client redisPublisher, channel string, logger *zap.Logger) *RedisEventPublisher {
	return &RedisEventPublisher{
		redis:   client,
		channel: channel,
		logger:  logger,
	}
}

// Publish marshals the event and publishes it on the diagnostics channel.
func (p *RedisEventPublisher) Publish(ctx context.Context, event models.RelayEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Could not encode relay event", zap.Error(err))
		return
	}
	if err := p.redis.Publish(ctx, p.channel, string(data)).Err(); err != nil {
		p.logger.Warn("Could not publish relay event",
			zap.String("channel", p.channel),
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
	}
}
