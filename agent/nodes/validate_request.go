package orchestratornode

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

var ErrInvalidMessage = fmt.Errorf("%w: content is required", contractx.ErrValidation)

type GraphInput struct {
	ConversationID string
	Text           string
}

type GraphOutput struct {
	ConversationID string
	Created        bool
	Classification contractx.Classification
	Definition     contractx.AgentDefinition
	Grounding      string
	History        []*contractx.Message
}

type GraphState struct {
	ConversationID string
	Created        bool
	Text           string
	Now            time.Time

	UserMessage    *contractx.Message
	Classification contractx.Classification
	Definition     contractx.AgentDefinition
	Grounding      string
	History        []*contractx.Message
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, ErrInvalidMessage
	}

	return &GraphState{
		ConversationID: strings.TrimSpace(in.ConversationID),
		Text:           text,
		Now:            nowFn().UTC(),
	}, nil
}
