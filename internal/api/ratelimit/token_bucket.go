package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket represents a single token bucket for rate limiting.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
	capacity   float64
	refillRate float64 // tokens per second
	period     time.Duration
}

func newTokenBucket(rate Rate, now time.Time) *tokenBucket {
	capacity := float64(rate.Limit)
	return &tokenBucket{
		tokens:     capacity,
		lastRefill: now,
		capacity:   capacity,
		refillRate: capacity / rate.Period.Seconds(),
		period:     rate.Period,
	}
}

// consume attempts to consume the requested number of tokens.
// Returns true if tokens were available and consumed, false otherwise.
func (tb *tokenBucket) consume(tokens float64, now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	// Refill tokens based on elapsed time
	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
		tb.lastRefill = now
	}

	if tb.tokens >= tokens {
		tb.tokens -= tokens
		return true
	}

	return false
}

func (tb *tokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastRefill)
}
