package config

// Redis backs the distributed rate limiter. The service never requires it:
// when REDIS_URL is unset or the server cannot be reached at startup the
// limiter is switched off and requests flow through unthrottled.

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPingTimeout = 2 * time.Second

// NewRedisClient builds a client from a redis:// or rediss:// URL and pings
// it. It returns (nil, nil) when rawURL is empty. On a failed ping the client
// is closed and the error returned so the caller can degrade.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	if rawURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	return client, nil
}
