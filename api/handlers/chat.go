package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tanpawarit/Chative-Support-Dispatch/api/middleware"
)

const maxMessageBodyBytes = 64 << 10

const msgConversationNotFound = "Conversation not found"

type sendMessageRequest struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

// SendMessage dispatches a message and streams the reply as plain text. The
// first body line is the routing status; the agent label and conversation id
// are also sent as headers.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.Error(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		h.Error(w, http.StatusBadRequest, "Content is required")
		return
	}

	reply, err := h.dispatcher.Dispatch(r.Context(), req.ConversationID, req.Content)
	if err != nil {
		h.fail(w, r, err, msgConversationNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set(middleware.HeaderConversationID, reply.ConversationID)
	w.Header().Set(middleware.HeaderAgentType, string(reply.Label))
	w.WriteHeader(http.StatusOK)

	if err := reply.Relay(r.Context(), w); err != nil {
		h.logger.Warn().Err(err).
			Str("conversation_id", reply.ConversationID).
			Str("agent", string(reply.Label)).
			Msg("reply stream ended early")
	}
}
