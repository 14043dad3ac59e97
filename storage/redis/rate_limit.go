// Package redis provides a Redis-backed billing.RateLimitStore.
// Counters are updated atomically with a Lua script so replicas sharing one
// Redis see the same per-IP window.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis rate limiter configuration
type Config struct {
	// KeyPrefix is prepended to all Redis keys (default: "paybridge:ratelimit:")
	KeyPrefix string

	// Limit is the maximum number of requests per key per window (default: 100)
	Limit int

	// Window is the fixed window length (default: 1 minute)
	Window time.Duration
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		KeyPrefix: "paybridge:ratelimit:",
		Limit:     100,
		Window:    time.Minute,
	}
}

// RateLimiter implements billing.RateLimitStore using Redis
type RateLimiter struct {
	client redis.UniversalClient
	config Config
	script *redis.Script
}

// fixedWindow increments the counter and arms its expiry on first use.
// Returns {count, ttl_ms}.
var fixedWindow = redis.NewScript(`
	local current = redis.call('INCR', KEYS[1])
	if current == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {current, ttl}
`)

// New creates a new Redis rate limiter.
// The client can be *redis.Client, *redis.ClusterClient, or *redis.Ring
func New(client redis.UniversalClient, config Config) (*RateLimiter, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	defaults := DefaultConfig()
	if config.KeyPrefix == "" {
		config.KeyPrefix = defaults.KeyPrefix
	}
	if config.Limit <= 0 {
		config.Limit = defaults.Limit
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}

	return &RateLimiter{
		client: client,
		config: config,
		script: fixedWindow,
	}, nil
}

// Allow implements billing.RateLimitStore
func (s *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	result, err := s.script.Run(
		ctx,
		s.client,
		[]string{s.key(key)},
		s.config.Window.Milliseconds(),
	).Result()
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit script: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, fmt.Errorf("unexpected result from rate limit script: %v", result)
	}

	count, ok := resultSlice[0].(int64)
	if !ok {
		return false, fmt.Errorf("invalid count value: %T", resultSlice[0])
	}

	return count <= int64(s.config.Limit), nil
}

// Close closes the Redis client connection
func (s *RateLimiter) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection
func (s *RateLimiter) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RateLimiter) key(k string) string {
	return s.config.KeyPrefix + k
}
