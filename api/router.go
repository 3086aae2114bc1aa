package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tanpawarit/Chative-Support-Dispatch/api/handlers"
	"github.com/tanpawarit/Chative-Support-Dispatch/api/middleware"
	"github.com/tanpawarit/Chative-Support-Dispatch/pkg/ratelimit"
)

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter creates and configures the HTTP router. Only the dispatch
// endpoints are rate limited.
func NewRouter(
	logger zerolog.Logger,
	h *handlers.Handler,
	limiter ratelimit.Limiter,
	cfg RouterConfig,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Metrics)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{middleware.HeaderConversationID, middleware.HeaderAgentType, middleware.HeaderRetryAfter},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	dispatch := func(r chi.Router) {
		if limiter != nil {
			r.Use(middleware.RateLimit(limiter, logger))
		}
		r.Post("/", h.SendMessage)
	}

	r.Route("/messages", dispatch)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.ListAgents)
			r.Get("/{type}/capabilities", h.AgentCapabilities)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Route("/messages", dispatch)
			r.Get("/conversations", h.ListConversations)
			r.Get("/conversations/{id}", h.GetConversation)
			r.Delete("/conversations/{id}", h.DeleteConversation)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Error(w, http.StatusNotFound, "Not found")
	})

	return r
}
