package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// SaveUserMessage must run before classification so history-aware stages
// and the support history fragment see the current turn.
func SaveUserMessage(
	ctx context.Context,
	in *GraphState,
	store contractx.MessageStore,
) (*GraphState, error) {
	if in == nil || in.ConversationID == "" {
		return nil, fmt.Errorf("%w: conversation is not resolved", contractx.ErrValidation)
	}

	msg, err := store.AppendMessage(ctx, in.ConversationID, contractx.RoleUser, in.Text, "")
	if err != nil {
		return nil, err
	}
	in.UserMessage = msg
	return in, nil
}
