package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes events as JSON on a per-account Pub/Sub channel
// named "<prefix>:<accountID>".
type RedisSink struct {
	client *redis.Client
	prefix string
}

// NewRedisSink creates a sink on an existing client.
func NewRedisSink(client *redis.Client, prefix string) *RedisSink {
	return &RedisSink{
		client: client,
		prefix: prefix,
	}
}

// NewRedisSinkFromURL parses a redis:// URL and creates a sink with its own client.
func NewRedisSinkFromURL(redisURL, prefix string) (*RedisSink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return NewRedisSink(redis.NewClient(opt), prefix), nil
}

// Channel returns the channel an account's events are published on.
func (s *RedisSink) Channel(accountID string) string {
	return s.prefix + ":" + accountID
}

// Publish sends the event to the account's channel.
func (s *RedisSink) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	if err := s.client.Publish(ctx, s.Channel(event.AccountID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", s.Channel(event.AccountID), err)
	}
	return nil
}

// Ping checks the connection to Redis.
func (s *RedisSink) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
