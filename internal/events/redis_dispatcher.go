package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// redisDispatcher delivers events to in-process subscribers and additionally
// fans them out to a Redis pub/sub channel for external consumers.
type redisDispatcher struct {
	local   Dispatcher
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisDispatcher wraps the in-memory dispatcher with Redis publication.
func NewRedisDispatcher(client *redis.Client, channel string, logger *zap.Logger) Dispatcher {
	return &redisDispatcher{
		local:   NewInMemoryDispatcher(),
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Publish delivers locally first, then publishes to Redis. A Redis failure is
// logged but does not fail the mutation that emitted the event.
func (d *redisDispatcher) Publish(ctx context.Context, event Event) error {
	if err := d.local.Publish(ctx, event); err != nil {
		return err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		d.logger.Warn("marshal event", zap.Error(err), zap.String("event_type", string(event.Type)))
		return nil
	}
	if err := d.client.Publish(ctx, d.channel, payload).Err(); err != nil {
		d.logger.Warn("publish event to redis", zap.Error(err), zap.String("event_type", string(event.Type)))
	}
	return nil
}

// Subscribe registers an in-process handler.
func (d *redisDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.local.Subscribe(eventType, handler)
}
