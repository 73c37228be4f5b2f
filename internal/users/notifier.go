package users

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventChannel is the Redis pub/sub channel carrying lifecycle events.
const EventChannel = "winside:user_events"

// Notifier publishes user lifecycle events to interested consumers.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// RedisNotifier publishes events as JSON messages on a Redis channel.
type RedisNotifier struct {
	client *redis.Client
}

func NewRedisNotifier(client *redis.Client) *RedisNotifier {
	return &RedisNotifier{client: client}
}

func (n *RedisNotifier) Notify(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("users: marshal event: %w", err)
	}
	if err := n.client.Publish(ctx, EventChannel, payload).Err(); err != nil {
		return fmt.Errorf("users: publish event: %w", err)
	}
	return nil
}

// NopNotifier discards events. Used where no consumer is wired.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) error { return nil }
