package registry

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Dispatch/agent/llm"
)

// ModelSet holds one streaming chat model per agent.
type ModelSet struct {
	order   einomodel.BaseChatModel
	billing einomodel.BaseChatModel
	support einomodel.BaseChatModel
}

func NewModelSet(ctx context.Context, cfg llmx.Config) (*ModelSet, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	build := func(label contractx.AgentLabel) (einomodel.BaseChatModel, error) {
		modelCfg := cfg.OpenRouterFor(label)
		m, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s model: %v", contractx.ErrModelInvoke, label, err)
		}
		return m, nil
	}

	order, err := build(contractx.AgentOrder)
	if err != nil {
		return nil, err
	}
	billing, err := build(contractx.AgentBilling)
	if err != nil {
		return nil, err
	}
	support, err := build(contractx.AgentSupport)
	if err != nil {
		return nil, err
	}

	return &ModelSet{order: order, billing: billing, support: support}, nil
}

// NewStaticModelSet serves the same model for every agent.
func NewStaticModelSet(m einomodel.BaseChatModel) *ModelSet {
	return &ModelSet{order: m, billing: m, support: m}
}

func (s *ModelSet) ChatModel(label contractx.AgentLabel) (einomodel.BaseChatModel, error) {
	var m einomodel.BaseChatModel
	switch label {
	case contractx.AgentOrder:
		m = s.order
	case contractx.AgentBilling:
		m = s.billing
	case contractx.AgentSupport:
		m = s.support
	default:
		return nil, fmt.Errorf("%w: agent type=%q", contractx.ErrNotFound, label)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: no chat model for agent=%s", contractx.ErrModelInvoke, label)
	}
	return m, nil
}
