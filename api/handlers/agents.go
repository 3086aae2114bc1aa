package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

type agentCapabilitiesResponse struct {
	contractx.AgentDefinition
	Capabilities []contractx.Capability `json:"capabilities"`
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, map[string]any{"agents": h.registry.Definitions()})
}

// AgentCapabilities matches the agent type exactly; "Order" is not "order".
func (h *Handler) AgentCapabilities(w http.ResponseWriter, r *http.Request) {
	agentType := chi.URLParam(r, "type")
	notFound := fmt.Sprintf("Agent type '%s' not found", agentType)

	def, err := h.registry.Definition(contractx.AgentLabel(agentType))
	if err != nil {
		h.fail(w, r, err, notFound)
		return
	}
	caps, err := h.registry.Capabilities(def.Label)
	if err != nil {
		h.fail(w, r, err, notFound)
		return
	}

	h.JSON(w, http.StatusOK, agentCapabilitiesResponse{
		AgentDefinition: def,
		Capabilities:    caps,
	})
}
