package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// The bucket is a hash {tokens, lastRefill}; refill, consume and expiry happen atomically.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refillRate = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local windowSeconds = tonumber(ARGV[4])

	local bucketData = redis.call('HMGET', key, 'tokens', 'lastRefill')
	local tokens = tonumber(bucketData[1])
	local lastRefill = tonumber(bucketData[2])
	if tokens == nil then
		tokens = capacity
	end
	if lastRefill == nil then
		lastRefill = now
	end

	local elapsed = (now - lastRefill) / 1000000000
	if elapsed > 0 then
		tokens = math.min(capacity, tokens + elapsed * refillRate)
	end

	local allowed = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'lastRefill', tostring(now))
	redis.call('EXPIRE', key, math.ceil(windowSeconds * 1.1))

	return allowed
`)

// RedisLimiter shares token buckets between server instances through Redis.
type RedisLimiter struct {
	client    *redis.Client
	rate      Rate
	keyPrefix string
}

// NewRedisLimiter creates a Redis-backed limiter. keyPrefix defaults to "rate_limit:".
func NewRedisLimiter(client *redis.Client, rate Rate, keyPrefix string) *RedisLimiter {
	if keyPrefix == "" {
		keyPrefix = "rate_limit:"
	}

	return &RedisLimiter{
		client:    client,
		rate:      rate,
		keyPrefix: keyPrefix,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	capacity := float64(r.rate.Limit)
	refillRate := capacity / r.rate.Period.Seconds()

	result, err := tokenBucketScript.Run(ctx, r.client, []string{r.keyPrefix + key},
		capacity,
		refillRate,
		time.Now().UnixNano(),
		r.rate.Period.Seconds(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("redis rate limit check failed: %w", err)
	}

	return result == 1, nil
}

// Ping checks if the Redis connection is healthy.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client connection.
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
