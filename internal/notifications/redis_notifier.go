package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const DefaultChannel = "courseadmin:notifications"

// RedisNotifier publishes notifications as JSON on a pub/sub channel so other
// UI shell instances can show them.
type RedisNotifier struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisNotifier(rdb redis.UniversalClient, channel string) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{rdb: rdb, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, in Notification) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	if err := n.rdb.Publish(ctx, n.channel, b).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
