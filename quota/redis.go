package quota

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed rate_limit.lua
var rateLimitScript string

//go:embed refund.lua
var refundScript string

// RedisLimiter shares counters between every instance of the server.
type RedisLimiter struct {
	redis  *redis.Client
	script *redis.Script
	refund *redis.Script
	log    *slog.Logger
}

func NewRedisLimiter(client *redis.Client, log *slog.Logger) *RedisLimiter {
	return &RedisLimiter{
		redis:  client,
		script: redis.NewScript(rateLimitScript),
		refund: redis.NewScript(refundScript),
		log:    log,
	}
}

func (r *RedisLimiter) Take(ctx context.Context, key string, limit int64, resetAt time.Time) (Result, error) {
	raw, err := r.script.Run(ctx, r.redis, []string{key}, limit, resetAt.Unix()).Result()
	if err != nil {
		r.log.Error("Quota check failed", "key", key, "error", err)
		return Result{}, fmt.Errorf("quota check %s: %w", key, err)
	}
	values, ok := raw.([]interface{})
	if !ok || len(values) != 2 {
		return Result{}, fmt.Errorf("quota check %s: unexpected script result %v", key, raw)
	}
	allowed, _ := values[0].(int64)
	count, _ := values[1].(int64)
	result := Result{Allowed: allowed == 1, Count: count, Limit: limit, ResetAt: resetAt}
	if !result.Allowed {
		r.log.Warn("Quota exhausted", "key", key, "count", count, "limit", limit)
	}
	return result, nil
}

func (r *RedisLimiter) Give(ctx context.Context, key string) error {
	if err := r.refund.Run(ctx, r.redis, []string{key}).Err(); err != nil {
		r.log.Error("Quota refund failed", "key", key, "error", err)
		return fmt.Errorf("quota refund %s: %w", key, err)
	}
	return nil
}
