package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func ClassifyIntent(
	ctx context.Context,
	in *GraphState,
	classifier contractx.IntentClassifier,
	registry contractx.AgentRegistry,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	in.Classification = classifier.Classify(ctx, in.Text, in.ConversationID)

	def, err := registry.Definition(in.Classification.Label)
	if err != nil {
		return nil, err
	}
	in.Definition = def
	return in, nil
}
