// Package memory provides an in-memory billing.RateLimitStore.
// Limits are local to the process; use storage/redis when several replicas
// sit behind the same webhook URL.
package memory

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a fixed-window limiter keyed by client identifier.
type RateLimiter struct {
	mu            sync.Mutex
	requests      map[string]*bucket
	limit         int           // max requests per window
	window        time.Duration // time window
	now           func() time.Time
	requestCount  int // counter for deterministic cleanup
	cleanupEvery  int // cleanup every N requests (default: 100)
	cleanupAtSize int // cleanup when map size exceeds this (default: 200)
}

type bucket struct {
	count   int
	resetAt time.Time
}

// Option configures a RateLimiter.
type Option func(*RateLimiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter creates a new rate limiter with the specified limit and window
func NewRateLimiter(limit int, window time.Duration, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		requests:      make(map[string]*bucket),
		limit:         limit,
		window:        window,
		now:           time.Now,
		cleanupEvery:  100,
		cleanupAtSize: 200,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Allow implements billing.RateLimitStore. It never fails.
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	rl.requestCount++
	if rl.requestCount%rl.cleanupEvery == 0 || len(rl.requests) > rl.cleanupAtSize {
		rl.cleanupExpired(now)
		// Reset counter after cleanup to avoid overflow
		if rl.requestCount >= rl.cleanupEvery*10 {
			rl.requestCount = 0
		}
	}

	b, exists := rl.requests[key]
	if !exists || now.After(b.resetAt) {
		rl.requests[key] = &bucket{
			count:   1,
			resetAt: now.Add(rl.window),
		}
		return true, nil
	}

	if b.count >= rl.limit {
		return false, nil
	}

	b.count++
	return true, nil
}

// Len reports how many keys are currently tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.requests)
}

// Cleanup removes all expired entries from the rate limiter.
// Can be called periodically (e.g., via a background goroutine) for proactive cleanup.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cleanupExpired(rl.now())
}

func (rl *RateLimiter) cleanupExpired(now time.Time) {
	for key, b := range rl.requests {
		if now.After(b.resetAt) {
			delete(rl.requests, key)
		}
	}
}
