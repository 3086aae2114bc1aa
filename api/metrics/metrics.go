package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "support_http_request_duration_seconds",
			Help:    "HTTP request duration, including streamed bodies",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// Dispatch metrics
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_classifications_total",
			Help: "Messages routed, by agent and the classifier stage that decided",
		},
		[]string{"agent", "stage"},
	)

	PersistTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_reply_persist_total",
			Help: "Assistant reply persistence outcomes",
		},
		[]string{"outcome"},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	RateLimitErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "support_rate_limit_errors_total",
			Help: "Rate limiter backend failures; requests were let through",
		},
	)
)

// DispatchRecorder feeds orchestrator outcomes into the dispatch metrics.
type DispatchRecorder struct{}

func (DispatchRecorder) ObserveClassification(label contractx.AgentLabel, stage contractx.ClassificationStage) {
	ClassificationsTotal.WithLabelValues(string(label), string(stage)).Inc()
}

func (DispatchRecorder) ObservePersist(outcome string) {
	PersistTotal.WithLabelValues(outcome).Inc()
}
