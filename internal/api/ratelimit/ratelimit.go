// Package ratelimit throttles API callers per bearer subject with token buckets.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Rate allows Limit requests per Period, refilled continuously.
type Rate struct {
	Limit  int
	Period time.Duration
}

// Limiter decides whether the caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// InMemoryLimiter keeps one token bucket per key in process memory.
type InMemoryLimiter struct {
	rate        Rate
	now         func() time.Time
	mu          sync.Mutex
	buckets     map[string]*tokenBucket
	cleanup     *time.Ticker
	stopCleanup chan struct{}
}

// NewInMemoryLimiter creates the limiter and its background cleanup goroutine.
func NewInMemoryLimiter(rate Rate) *InMemoryLimiter {
	l := &InMemoryLimiter{
		rate:        rate,
		now:         time.Now,
		buckets:     make(map[string]*tokenBucket),
		cleanup:     time.NewTicker(5 * time.Minute),
		stopCleanup: make(chan struct{}),
	}

	go l.cleanupUnusedBuckets()

	return l
}

// Stop stops the background cleanup goroutine. Call this when shutting down.
func (l *InMemoryLimiter) Stop() {
	l.cleanup.Stop()
	close(l.stopCleanup)
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	bucket, exists := l.buckets[key]
	if !exists {
		bucket = newTokenBucket(l.rate, now)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	return bucket.consume(1, now), nil
}

// prune removes buckets idle for more than two periods.
func (l *InMemoryLimiter) prune() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		if bucket.idleSince(now) > bucket.period*2 {
			delete(l.buckets, key)
		}
	}
}

func (l *InMemoryLimiter) cleanupUnusedBuckets() {
	for {
		select {
		case <-l.cleanup.C:
			l.prune()
		case <-l.stopCleanup:
			return
		}
	}
}
