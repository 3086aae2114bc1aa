package tool

import (
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func TestInfosForAgentOrder(t *testing.T) {
	t.Parallel()

	infos, err := InfosForAgent(contractx.AgentOrder)
	if err != nil {
		t.Fatalf("InfosForAgent() error = %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("expected 3 tool infos, got %d", len(infos))
	}
	if infos[0].Name != ToolGetOrderDetails {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}
	if infos[2].Name != ToolGetTrackingInfo {
		t.Fatalf("unexpected last tool: %s", infos[2].Name)
	}
}

func TestCapabilitiesPerAgent(t *testing.T) {
	t.Parallel()

	want := map[contractx.AgentLabel][]string{
		contractx.AgentOrder:   {ToolGetOrderDetails, ToolCheckDeliveryStatus, ToolGetTrackingInfo},
		contractx.AgentBilling: {ToolGetInvoiceDetails, ToolCheckPaymentStatus, ToolListAllInvoices},
		contractx.AgentSupport: {ToolSearchFAQ, ToolGetConversationHistory},
	}

	for label, tools := range want {
		caps, err := Capabilities(label)
		if err != nil {
			t.Fatalf("Capabilities(%s) error = %v", label, err)
		}
		if len(caps) != len(tools) {
			t.Fatalf("Capabilities(%s) returned %d entries, want %d", label, len(caps), len(tools))
		}
		for i, name := range tools {
			if caps[i].Tool != name {
				t.Fatalf("Capabilities(%s)[%d] = %s, want %s", label, i, caps[i].Tool, name)
			}
			if caps[i].Description == "" {
				t.Fatalf("Capabilities(%s)[%d] has empty description", label, i)
			}
		}
	}
}

func TestCapabilitiesUnknownAgent(t *testing.T) {
	t.Parallel()

	_, err := Capabilities("shipping")
	if !errors.Is(err, contractx.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
