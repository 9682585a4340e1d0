package config

import "time"

// RateLimitConfig drives the Redis token bucket in front of the /api group.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
	Debug          bool
}

// RateLimit derives the limiter settings, clamping values that would make
// the bucket useless.
func (c *Config) RateLimit() RateLimitConfig {
	rl := RateLimitConfig{
		Enabled:        c.RateLimitEnabled,
		Capacity:       c.RateLimitCapacity,
		RefillTokens:   c.RateLimitRefillTokens,
		RefillInterval: c.RateLimitRefillInterval,
		TTL:            c.RateLimitTTL,
		KeyStrategy:    c.RateLimitKeyStrategy,
		Prefix:         c.RateLimitPrefix,
		Debug:          c.RateLimitDebug,
	}
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	// keep idle buckets around long enough to refill at least a few times
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	if rl.Prefix == "" {
		rl.Prefix = "rl"
	}
	return rl
}
