package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/StrathCole/btc-cache/pkg/config"
)

// RedisWriter stores each artifact under prefix+name and announces the name
// on a pub/sub channel when one is configured.
type RedisWriter struct {
	client  *redis.Client
	prefix  string
	channel string
}

// NewRedisWriter connects to Redis.
func NewRedisWriter(ctx context.Context, cfg config.RedisConfig) (*RedisWriter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisWriter{
		client:  client,
		prefix:  cfg.KeyPrefix,
		channel: cfg.Channel,
	}, nil
}

// Write sets the key and publishes the artifact name in one round trip.
func (r *RedisWriter) Write(ctx context.Context, name, content string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.prefix+name, content, 0)
		if r.channel != "" {
			pipe.Publish(ctx, r.channel, name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store artifact %s in Redis: %w", name, err)
	}
	return nil
}

// Close closes the client.
func (r *RedisWriter) Close() error {
	return r.client.Close()
}
