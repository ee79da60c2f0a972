package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketRefills(t *testing.T) {
	start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	tb := newTokenBucket(Rate{Limit: 2, Period: 2 * time.Second}, start)

	assert.True(t, tb.consume(1, start))
	assert.True(t, tb.consume(1, start))
	assert.False(t, tb.consume(1, start))

	// one token per second
	assert.True(t, tb.consume(1, start.Add(time.Second)))
	assert.False(t, tb.consume(1, start.Add(time.Second)))

	// never above capacity
	later := start.Add(time.Hour)
	assert.True(t, tb.consume(1, later))
	assert.True(t, tb.consume(1, later))
	assert.False(t, tb.consume(1, later))
}

func TestInMemoryLimiterIsPerKey(t *testing.T) {
	l := NewInMemoryLimiter(Rate{Limit: 1, Period: time.Minute})
	defer l.Stop()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	ok, err := l.Allow(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.Allow(ctx, "alice")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "bob")
	assert.True(t, ok)
}

func TestPruneDropsIdleBuckets(t *testing.T) {
	l := NewInMemoryLimiter(Rate{Limit: 1, Period: time.Minute})
	defer l.Stop()

	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	_, _ = l.Allow(context.Background(), "alice")

	now = now.Add(3 * time.Minute)
	l.prune()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.buckets)
}
