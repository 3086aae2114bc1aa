package orchestratornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func FinalizeDispatch(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.Definition.Label == "" {
		return GraphOutput{}, fmt.Errorf("%w: no agent resolved", contractx.ErrValidation)
	}

	return GraphOutput{
		ConversationID: in.ConversationID,
		Created:        in.Created,
		Classification: in.Classification,
		Definition:     in.Definition,
		Grounding:      in.Grounding,
		History:        in.History,
	}, nil
}
