package push

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// EventNotification is the event name emitted for in-app notification pushes.
const EventNotification = "notification"

// Gateway delivers realtime events to a user's channel, fire-and-forget.
type Gateway interface {
	Emit(ctx context.Context, userID, event string, payload any) error
}

// RedisGateway publishes events on per-user Redis pub/sub channels; the
// websocket edge subscribes to these channels and forwards to browsers.
type RedisGateway struct {
	client *redis.Client
}

// NewRedisGateway builds a gateway over an existing client.
func NewRedisGateway(client *redis.Client) *RedisGateway {
	return &RedisGateway{client: client}
}

// Emit publishes one event to the user's channel.
func (g *RedisGateway) Emit(ctx context.Context, userID, event string, payload any) error {
	body, err := json.Marshal(map[string]any{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("push marshal: %w", err)
	}
	channel := ChannelFor(userID)
	if err := g.client.Publish(ctx, channel, body).Err(); err != nil {
		return fmt.Errorf("push publish %s: %w", channel, err)
	}
	return nil
}

// ChannelFor returns the pub/sub channel name for a user.
func ChannelFor(userID string) string {
	return "push:user:" + userID
}
