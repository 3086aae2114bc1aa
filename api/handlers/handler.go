package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/Chative-Support-Dispatch/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// Dispatcher opens a streamed reply for one inbound message.
type Dispatcher interface {
	Dispatch(ctx context.Context, conversationID string, text string) (*orchestrator.Reply, error)
}

// Conversations is the read and delete side of the record store.
type Conversations interface {
	contractx.ConversationStore
	ListMessages(ctx context.Context, conversationID string) ([]*contractx.Message, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Option func(*Handler)

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	dispatcher    Dispatcher
	conversations Conversations
	registry      contractx.AgentRegistry
	db            Pinger

	logger  zerolog.Logger
	now     func() time.Time
	started time.Time
}

func NewHandler(
	dispatcher Dispatcher,
	conversations Conversations,
	registry contractx.AgentRegistry,
	db Pinger,
	opts ...Option,
) *Handler {
	h := &Handler{
		dispatcher:    dispatcher,
		conversations: conversations,
		registry:      registry,
		db:            db,
		logger:        log.Logger,
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.started = h.now()
	return h
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("write json response")
	}
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// fail maps domain errors to their HTTP status. notFound is the message used
// for ErrNotFound; anything unrecognised becomes a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, contractx.ErrValidation):
		h.Error(w, http.StatusBadRequest, "Content is required")
	case errors.Is(err, contractx.ErrNotFound):
		h.Error(w, http.StatusNotFound, notFound)
	default:
		h.logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		h.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
