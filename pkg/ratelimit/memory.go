package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

type MemoryOption func(*Memory)

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		if now != nil {
			m.now = now
		}
	}
}

// Memory is a process-local fixed-window limiter. Expired windows are
// dropped lazily, at most once per window length.
type Memory struct {
	mu        sync.Mutex
	windows   map[string]*window
	length    time.Duration
	limit     int
	now       func() time.Time
	nextSweep time.Time
}

var _ Limiter = (*Memory)(nil)

func NewMemory(length time.Duration, limit int, opts ...MemoryOption) *Memory {
	m := &Memory{
		windows: make(map[string]*window),
		length:  length,
		limit:   limit,
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

func (m *Memory) Allow(_ context.Context, key string) (Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	w, ok := m.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(m.length)}
		m.windows[key] = w
	}
	w.count++

	return decide(w.count, m.limit, w.resetAt, now), nil
}

// Len reports the number of live windows.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

func (m *Memory) sweep(now time.Time) {
	if now.Before(m.nextSweep) {
		return
	}
	for key, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, key)
		}
	}
	m.nextSweep = now.Add(m.length)
}
