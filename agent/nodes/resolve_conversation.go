package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// ResolveConversation creates a conversation when none was given and
// otherwise requires the given one to exist.
func ResolveConversation(
	ctx context.Context,
	in *GraphState,
	store contractx.ConversationStore,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if in.ConversationID == "" {
		conv, err := store.CreateConversation(ctx)
		if err != nil {
			return nil, err
		}
		in.ConversationID = conv.ID
		in.Created = true
		return in, nil
	}

	conv, err := store.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation id=%s", contractx.ErrNotFound, in.ConversationID)
	}
	return in, nil
}
