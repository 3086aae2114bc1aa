package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// LoadHistory reads the conversation, including the just-saved user turn,
// and keeps only the most recent limit messages. A limit <= 0 keeps all.
func LoadHistory(
	ctx context.Context,
	in *GraphState,
	store contractx.MessageStore,
	limit int,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	history, err := store.ListMessages(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}
	in.History = CompactHistory(history, limit)
	return in, nil
}

func CompactHistory(history []*contractx.Message, limit int) []*contractx.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
