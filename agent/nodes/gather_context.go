package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func GatherContext(
	ctx context.Context,
	in *GraphState,
	gatherer contractx.ContextGatherer,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	grounding, err := gatherer.Gather(ctx, in.Definition.Label, in.Text, in.ConversationID)
	if err != nil {
		return nil, err
	}
	in.Grounding = grounding
	return in, nil
}
