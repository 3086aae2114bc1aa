package ratelimit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 1 << 20

// UpstashOption customizes UpstashCounter.
type UpstashOption func(*UpstashCounter)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(c *UpstashCounter) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			c.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(c *UpstashCounter) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithUpstashClock(now func() time.Time) UpstashOption {
	return func(c *UpstashCounter) {
		if now != nil {
			c.now = now
		}
	}
}

// UpstashCounter keeps fixed-window counters in Upstash Redis via REST.
type UpstashCounter struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
	length     time.Duration
	limit      int
	now        func() time.Time
}

var _ Limiter = (*UpstashCounter)(nil)

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashCounter(cfg Config, opts ...UpstashOption) (*UpstashCounter, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.UpstashURL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.UpstashToken)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}
	if cfg.Window <= 0 || cfg.Max <= 0 {
		return nil, errors.New("window and max must be > 0")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	counter := &UpstashCounter{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keyPrefix: defaultKeyPrefix,
		length:    cfg.Window,
		limit:     cfg.Max,
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(counter)
		}
	}

	return counter, nil
}

// Allow increments the key and reads its remaining lifetime in one
// transaction. A key without an expiry is the first hit of a new window.
func (c *UpstashCounter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := prefixed(c.keyPrefix, key)

	replies, err := c.transaction(ctx, [][]any{
		{"INCR", redisKey},
		{"PTTL", redisKey},
	})
	if err != nil {
		return Decision{}, err
	}
	if len(replies) != 2 {
		return Decision{}, fmt.Errorf("unexpected redis reply count=%d", len(replies))
	}

	var count, ttlMillis int64
	if err := decodeInt(replies[0], &count); err != nil {
		return Decision{}, fmt.Errorf("decode INCR reply: %w", err)
	}
	if err := decodeInt(replies[1], &ttlMillis); err != nil {
		return Decision{}, fmt.Errorf("decode PTTL reply: %w", err)
	}

	ttl := time.Duration(ttlMillis) * time.Millisecond
	if ttlMillis <= 0 {
		if _, err := c.exec(ctx, []any{"PEXPIRE", redisKey, c.length.Milliseconds()}); err != nil {
			return Decision{}, err
		}
		ttl = c.length
	}

	now := c.now()
	return decide(count, c.limit, now.Add(ttl), now), nil
}

func decodeInt(resp redisRESTResponse, out *int64) error {
	if resp.Error != "" {
		return errors.New(resp.Error)
	}
	return json.Unmarshal(bytes.TrimSpace(resp.Result), out)
}

func (c *UpstashCounter) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	raw, err := c.post(ctx, c.baseURL, command)
	if err != nil {
		return nil, err
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func (c *UpstashCounter) transaction(ctx context.Context, commands [][]any) ([]redisRESTResponse, error) {
	raw, err := c.post(ctx, c.baseURL+"/multi-exec", commands)
	if err != nil {
		return nil, err
	}

	var parsed []redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis transaction response: %w", err)
	}
	return parsed, nil
}

func (c *UpstashCounter) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
