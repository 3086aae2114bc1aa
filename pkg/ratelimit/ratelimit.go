package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const (
	BackendMemory  = "memory"
	BackendUpstash = "upstash"
	BackendRedis   = "redis"

	defaultKeyPrefix = "support:ratelimit:"
)

type Config struct {
	Backend      string        `envconfig:"BACKEND" split_words:"true" default:"memory"`
	Window       time.Duration `envconfig:"WINDOW" split_words:"true" default:"60s"`
	Max          int           `envconfig:"MAX" split_words:"true" default:"30"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" split_words:"true" default:"support:ratelimit:"`
	RedisURL     string        `envconfig:"REDIS_URL" split_words:"true"`
	UpstashURL   string        `envconfig:"UPSTASH_URL" split_words:"true"`
	UpstashToken string        `envconfig:"UPSTASH_TOKEN" split_words:"true"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: rate limit window must be > 0", contractx.ErrValidation)
	}
	if c.Max <= 0 {
		return fmt.Errorf("%w: rate limit max must be > 0", contractx.ErrValidation)
	}

	switch strings.TrimSpace(c.Backend) {
	case BackendMemory:
		return nil
	case BackendUpstash:
		if strings.TrimSpace(c.UpstashURL) == "" || strings.TrimSpace(c.UpstashToken) == "" {
			return fmt.Errorf("%w: upstash url and token are required", contractx.ErrValidation)
		}
		return nil
	case BackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("%w: redis url is required", contractx.ErrValidation)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported rate limit backend=%q", contractx.ErrValidation, c.Backend)
	}
}

// Decision is the outcome of counting one request against its window.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the time left until the window resets.
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds, never below one.
func (d Decision) RetryAfterSeconds() int {
	secs := int((d.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// New builds the limiter selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendUpstash:
		return NewUpstashCounter(cfg, WithKeyPrefix(cfg.KeyPrefix))
	case BackendRedis:
		return NewRedisCounter(ctx, cfg)
	default:
		return NewMemory(cfg.Window, cfg.Max), nil
	}
}

// decide turns the post-increment count of a window into a Decision.
func decide(count int64, limit int, resetAt time.Time, now time.Time) Decision {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	retryAfter := resetAt.Sub(now)
	if retryAfter < 0 {
		retryAfter = 0
	}
	return Decision{
		Allowed:    count <= int64(limit),
		Limit:      limit,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}
}

func prefixed(prefix string, key string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return prefix + key
}
