package registry

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
	promptx "github.com/tanpawarit/Chative-Support-Dispatch/agent/prompt"
	toolx "github.com/tanpawarit/Chative-Support-Dispatch/agent/tool"
)

// Registry maps the closed set of agent labels to their definitions.
type Registry struct {
	order   contractx.AgentDefinition
	billing contractx.AgentDefinition
	support contractx.AgentDefinition
}

var _ contractx.AgentRegistry = (*Registry)(nil)

func New(prompts promptx.PromptSet) (*Registry, error) {
	r := &Registry{
		order: contractx.AgentDefinition{
			Label:        contractx.AgentOrder,
			Name:         "Order Agent",
			Description:  "Handles order status, tracking, and delivery inquiries",
			Instructions: prompts.Order,
		},
		billing: contractx.AgentDefinition{
			Label:        contractx.AgentBilling,
			Name:         "Billing Agent",
			Description:  "Handles invoice lookups, payment status, and billing inquiries",
			Instructions: prompts.Billing,
		},
		support: contractx.AgentDefinition{
			Label:        contractx.AgentSupport,
			Name:         "Support Agent",
			Description:  "Handles general support inquiries, FAQs, and troubleshooting",
			Instructions: prompts.Support,
		},
	}

	for _, def := range r.Definitions() {
		if def.Instructions == "" {
			return nil, fmt.Errorf("%w: instructions for agent=%s", contractx.ErrPromptMissing, def.Label)
		}
	}
	return r, nil
}

// MustNew loads the embedded prompt set and panics if any is missing.
func MustNew() *Registry {
	r, err := New(promptx.LoadPromptSet())
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Definition(label contractx.AgentLabel) (contractx.AgentDefinition, error) {
	switch label {
	case contractx.AgentOrder:
		return r.order, nil
	case contractx.AgentBilling:
		return r.billing, nil
	case contractx.AgentSupport:
		return r.support, nil
	default:
		return contractx.AgentDefinition{}, fmt.Errorf("%w: agent type=%q", contractx.ErrNotFound, label)
	}
}

// Definitions returns every definition in registry order.
func (r *Registry) Definitions() []contractx.AgentDefinition {
	return []contractx.AgentDefinition{r.order, r.billing, r.support}
}

func (r *Registry) Capabilities(label contractx.AgentLabel) ([]contractx.Capability, error) {
	return toolx.Capabilities(label)
}
