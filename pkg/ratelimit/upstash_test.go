package ratelimit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// fakeUpstash understands the handful of commands the counter sends.
type fakeUpstash struct {
	mu       sync.Mutex
	counts   map[string]int64
	ttls     map[string]int64
	commands []string
	auth     string
}

func newFakeUpstash() *fakeUpstash {
	return &fakeUpstash{counts: map[string]int64{}, ttls: map[string]int64{}}
}

func (f *fakeUpstash) run(cmd []any) map[string]any {
	name, _ := cmd[0].(string)
	key, _ := cmd[1].(string)
	f.commands = append(f.commands, name)

	switch name {
	case "INCR":
		f.counts[key]++
		return map[string]any{"result": f.counts[key]}
	case "PTTL":
		ttl, ok := f.ttls[key]
		if !ok {
			return map[string]any{"result": -1}
		}
		return map[string]any{"result": ttl}
	case "PEXPIRE":
		ms, _ := cmd[2].(float64)
		f.ttls[key] = int64(ms)
		return map[string]any{"result": 1}
	default:
		return map[string]any{"error": "ERR unknown command " + name}
	}
}

func (f *fakeUpstash) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auth = r.Header.Get("Authorization")

	if r.URL.Path == "/multi-exec" {
		var cmds [][]any
		if err := json.NewDecoder(r.Body).Decode(&cmds); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		out := make([]map[string]any, 0, len(cmds))
		for _, cmd := range cmds {
			out = append(out, f.run(cmd))
		}
		_ = json.NewEncoder(w).Encode(out)
		return
	}

	var cmd []any
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_ = json.NewEncoder(w).Encode(f.run(cmd))
}

func newTestUpstashCounter(t *testing.T, server *httptest.Server, now func() time.Time) *UpstashCounter {
	t.Helper()

	counter, err := NewUpstashCounter(
		Config{
			UpstashURL:   server.URL,
			UpstashToken: "token",
			Window:       60 * time.Second,
			Max:          2,
		},
		WithHTTPClient(server.Client()),
		WithKeyPrefix("test:rl:"),
		WithUpstashClock(now),
	)
	if err != nil {
		t.Fatalf("NewUpstashCounter() error = %v", err)
	}
	return counter
}

func TestUpstashCounterFixedWindow(t *testing.T) {
	t.Parallel()

	fake := newFakeUpstash()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	counter := newTestUpstashCounter(t, server, func() time.Time { return now })
	ctx := context.Background()

	first, err := counter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if !first.Allowed || first.Remaining != 1 {
		t.Fatalf("unexpected first decision: %+v", first)
	}
	fake.mu.Lock()
	ttl, auth := fake.ttls["test:rl:1.2.3.4"], fake.auth
	fake.mu.Unlock()
	if ttl != 60000 {
		t.Fatalf("first hit should start a 60s window, ttl=%d", ttl)
	}
	if auth != "Bearer token" {
		t.Fatalf("Authorization = %q", auth)
	}

	if _, err := counter.Allow(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("Allow() error = %v", err)
	}

	fake.mu.Lock()
	fake.ttls["test:rl:1.2.3.4"] = 42500
	fake.mu.Unlock()

	third, err := counter.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if third.Allowed {
		t.Fatal("third request within the window should be rejected")
	}
	if got := third.RetryAfterSeconds(); got != 43 {
		t.Fatalf("RetryAfterSeconds() = %d, want 43", got)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	pexpires := 0
	for _, c := range fake.commands {
		if c == "PEXPIRE" {
			pexpires++
		}
	}
	if pexpires != 1 {
		t.Fatalf("expiry should be set once per window, got %d", pexpires)
	}
}

func TestUpstashCounterSurfacesHTTPErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"Unauthorized"}`)
	}))
	t.Cleanup(server.Close)

	counter := newTestUpstashCounter(t, server, time.Now)
	if _, err := counter.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}

func TestUpstashCounterSurfacesCommandErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"error":"WRONGTYPE"},{"result":-1}]`)
	}))
	t.Cleanup(server.Close)

	counter := newTestUpstashCounter(t, server, time.Now)
	if _, err := counter.Allow(context.Background(), "k"); err == nil {
		t.Fatal("expected the command error to be returned")
	}
}

func TestNewUpstashCounterValidatesConfig(t *testing.T) {
	t.Parallel()

	if _, err := NewUpstashCounter(Config{UpstashToken: "t", Window: time.Minute, Max: 1}); err == nil {
		t.Fatal("expected an error for a missing url")
	}
	if _, err := NewUpstashCounter(Config{UpstashURL: "https://example.upstash.io", Window: time.Minute, Max: 1}); err == nil {
		t.Fatal("expected an error for a missing token")
	}
}
