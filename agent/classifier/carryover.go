package classifier

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// CarryoverMaxRunes is the length below which a message counts as a terse
// follow-up.
const CarryoverMaxRunes = 40

var (
	carryoverBilling = regexp.MustCompile(`(?i)invoice|billing|payment|amount`)
	carryoverOrder   = regexp.MustCompile(`(?i)order|tracking|shipped|delivery`)
)

// Carryover infers the intent of a short follow-up from the subject of the
// previous assistant reply in the same conversation.
type Carryover struct {
	messages contractx.MessageStore
}

func NewCarryover(messages contractx.MessageStore) *Carryover {
	return &Carryover{messages: messages}
}

// Applies reports whether the heuristic is allowed to run for the message.
func (c *Carryover) Applies(text string, conversationID string) bool {
	return strings.TrimSpace(conversationID) != "" &&
		utf8.RuneCountInString(text) < CarryoverMaxRunes
}

func (c *Carryover) Resolve(ctx context.Context, text string, conversationID string) (Result, error) {
	if c == nil || c.messages == nil || !c.Applies(text, conversationID) {
		return Unresolved(), nil
	}

	last, err := c.messages.MostRecentAssistantMessage(ctx, conversationID)
	if err != nil {
		return Unresolved(), err
	}
	if last == nil {
		return Unresolved(), nil
	}

	switch {
	case carryoverBilling.MatchString(last.Content):
		return Resolved(contractx.AgentBilling), nil
	case carryoverOrder.MatchString(last.Content):
		return Resolved(contractx.AgentOrder), nil
	default:
		return Unresolved(), nil
	}
}
