package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

type manualClock struct {
	t time.Time
}

func (c *manualClock) now() time.Time { return c.t }

func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestMemoryThirdRequestRejectedUntilWindowElapses(t *testing.T) {
	t.Parallel()

	clock := &manualClock{t: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	limiter := NewMemory(60*time.Second, 2, WithMemoryClock(clock.now))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := limiter.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	clock.advance(10 * time.Second)
	d, err := limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if d.Allowed {
		t.Fatal("third request within the window should be rejected")
	}
	if got := d.RetryAfterSeconds(); got != 50 {
		t.Fatalf("RetryAfterSeconds() = %d, want 50", got)
	}
	if d.Remaining != 0 {
		t.Fatalf("Remaining = %d, want 0", d.Remaining)
	}

	other, err := limiter.Allow(ctx, "5.6.7.8")
	if err != nil || !other.Allowed {
		t.Fatalf("other keys keep their own window, got %+v err=%v", other, err)
	}

	clock.advance(50 * time.Second)
	d, err = limiter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !d.Allowed {
		t.Fatal("request after the window elapsed should be allowed")
	}
	if d.Remaining != 1 {
		t.Fatalf("Remaining = %d, want 1", d.Remaining)
	}
}

func TestMemorySweepsExpiredWindows(t *testing.T) {
	t.Parallel()

	clock := &manualClock{t: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)}
	limiter := NewMemory(time.Minute, 5, WithMemoryClock(clock.now))
	ctx := context.Background()

	for _, key := range []string{"a", "b", "c"} {
		if _, err := limiter.Allow(ctx, key); err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
	}
	if got := limiter.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	clock.advance(2 * time.Minute)
	if _, err := limiter.Allow(ctx, "d"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if got := limiter.Len(); got != 1 {
		t.Fatalf("expired windows should be evicted, Len() = %d", got)
	}
}

func TestRetryAfterSecondsRoundsUp(t *testing.T) {
	t.Parallel()

	cases := map[time.Duration]int{
		0:                        1,
		300 * time.Millisecond:   1,
		1 * time.Second:          1,
		1001 * time.Millisecond:  2,
		59500 * time.Millisecond: 60,
	}
	for in, want := range cases {
		if got := (Decision{RetryAfter: in}).RetryAfterSeconds(); got != want {
			t.Fatalf("RetryAfterSeconds(%s) = %d, want %d", in, got, want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := Config{Backend: BackendMemory, Window: time.Minute, Max: 30}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	invalid := []Config{
		{Backend: BackendMemory, Window: 0, Max: 30},
		{Backend: BackendMemory, Window: time.Minute, Max: 0},
		{Backend: BackendUpstash, Window: time.Minute, Max: 30},
		{Backend: BackendRedis, Window: time.Minute, Max: 30},
		{Backend: "memcached", Window: time.Minute, Max: 30},
	}
	for _, cfg := range invalid {
		if err := cfg.Validate(); !errors.Is(err, contractx.ErrValidation) {
			t.Fatalf("Validate(%+v) error = %v, want ErrValidation", cfg, err)
		}
	}
}

func TestNewSelectsMemoryBackend(t *testing.T) {
	t.Parallel()

	limiter, err := New(context.Background(), Config{Backend: BackendMemory, Window: time.Minute, Max: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := limiter.(*Memory); !ok {
		t.Fatalf("New() = %T, want *Memory", limiter)
	}
}
