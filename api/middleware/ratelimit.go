package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tanpawarit/Chative-Support-Dispatch/api/metrics"
	"github.com/tanpawarit/Chative-Support-Dispatch/pkg/ratelimit"
)

const (
	HeaderConversationID = "X-Conversation-Id"
	HeaderAgentType      = "X-Agent-Type"
	HeaderRetryAfter     = "Retry-After"

	unknownClientKey = "unknown"
)

// ClientKey identifies the caller by its forwarded address. Requests without
// one share the "unknown" bucket.
func ClientKey(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if first := strings.TrimSpace(strings.Split(ip, ",")[0]); first != "" {
			return first
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return unknownClientKey
}

// RateLimit rejects callers over their fixed-window budget with 429. Limiter
// failures are logged and the request is let through.
func RateLimit(limiter ratelimit.Limiter, logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)

			decision, err := limiter.Allow(r.Context(), key)
			if err != nil {
				metrics.RateLimitErrors.Inc()
				logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				w.Header().Set(HeaderRetryAfter, strconv.Itoa(decision.RetryAfterSeconds()))
				metrics.RateLimitHits.WithLabelValues(r.URL.Path).Inc()

				logger.Warn().
					Str("event", "rate_limit_exceeded").
					Str("key", key).
					Str("endpoint", r.URL.Path).
					Msg("rate limit exceeded")

				writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
