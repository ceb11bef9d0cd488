package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wadjakorntonsri/go-job-board/pkg/ports"
)

const keyPrefix = "jobboard:ratelimit:"

// RedisLimiter shares fixed-window counters between every instance using the
// same Redis.
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	period time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: int64(limit), period: period}
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// allowScript counts the hit and opens the window in one step. A key left
// without a TTL gets one on its next hit.
var allowScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if redis.call('PTTL', KEYS[1]) < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return n
`)

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := allowScript.Run(ctx, l.rdb, []string{keyPrefix + key}, l.period.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("redis rate limit: %w", err)
	}
	return n <= l.limit, nil
}

// Ensure interface compliance
var _ ports.RateLimiter = (*RedisLimiter)(nil)
