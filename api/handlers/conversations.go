package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.conversations.ListConversations(r.Context())
	if err != nil {
		h.fail(w, r, err, msgConversationNotFound)
		return
	}
	if convs == nil {
		convs = []*contractx.Conversation{}
	}
	h.JSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	conv, err := h.conversations.GetConversation(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgConversationNotFound)
		return
	}
	if conv == nil {
		h.Error(w, http.StatusNotFound, msgConversationNotFound)
		return
	}

	messages, err := h.conversations.ListMessages(r.Context(), id)
	if err != nil {
		h.fail(w, r, err, msgConversationNotFound)
		return
	}
	if messages == nil {
		messages = []*contractx.Message{}
	}
	conv.Messages = messages

	h.JSON(w, http.StatusOK, map[string]any{"conversation": conv})
}

func (h *Handler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	if err := h.conversations.DeleteConversation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err, msgConversationNotFound)
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"message": "Conversation deleted"})
}
