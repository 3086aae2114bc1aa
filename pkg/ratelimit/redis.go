package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCounter keeps fixed-window counters in Redis so every replica shares
// the same budget.
type RedisCounter struct {
	client *redis.Client
	prefix string
	length time.Duration
	limit  int
	now    func() time.Time
}

var _ Limiter = (*RedisCounter)(nil)

func NewRedisCounter(ctx context.Context, cfg Config) (*RedisCounter, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisCounterWithClient(client, cfg), nil
}

func NewRedisCounterWithClient(client *redis.Client, cfg Config) *RedisCounter {
	return &RedisCounter{
		client: client,
		prefix: cfg.KeyPrefix,
		length: cfg.Window,
		limit:  cfg.Max,
		now:    time.Now,
	}
}

func (c *RedisCounter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := prefixed(c.prefix, key)

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("count request: %w", err)
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		if err := c.client.PExpire(ctx, redisKey, c.length).Err(); err != nil {
			return Decision{}, fmt.Errorf("set window expiry: %w", err)
		}
		ttl = c.length
	}

	now := c.now()
	return decide(incr.Val(), c.limit, now.Add(ttl), now), nil
}

func (c *RedisCounter) Close() error {
	return c.client.Close()
}
