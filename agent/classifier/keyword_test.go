package classifier

import (
	"testing"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func TestClassifyKeywords(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want contractx.AgentLabel
	}{
		{name: "invoice id", text: "Show me INV-2001", want: contractx.AgentBilling},
		{name: "order id", text: "What is the status of ORD-1001?", want: contractx.AgentOrder},
		{name: "lowercase order id", text: "check ord-1002", want: contractx.AgentOrder},
		{name: "lowercase invoice id", text: "details for inv-2003", want: contractx.AgentBilling},
		{name: "invoice id beats order id", text: "ORD-1001 was billed on INV-2001", want: contractx.AgentBilling},
		{name: "invoice id beats order keyword", text: "Check order INV-2001", want: contractx.AgentBilling},
		{name: "order id beats billing keyword", text: "Payment for ORD-1001", want: contractx.AgentOrder},
		{name: "password", text: "reset my password", want: contractx.AgentSupport},
		{name: "how do", text: "How do I return an item?", want: contractx.AgentSupport},
		{name: "troubleshooting", text: "I need help troubleshooting my account", want: contractx.AgentSupport},
		{name: "how can beats tracking", text: "How can I track my package?", want: contractx.AgentSupport},
		{name: "return policy", text: "What is the return policy?", want: contractx.AgentSupport},
		{name: "how long beats shipping", text: "How long does shipping take?", want: contractx.AgentSupport},
		{name: "account lock", text: "my account locked out", want: contractx.AgentSupport},
		{name: "faq", text: "is there an FAQ", want: contractx.AgentSupport},
		{name: "invoices", text: "Show me my invoices", want: contractx.AgentBilling},
		{name: "payment", text: "my payment failed", want: contractx.AgentBilling},
		{name: "charge", text: "I see an unexpected charge", want: contractx.AgentBilling},
		{name: "subscription", text: "Cancel my subscription", want: contractx.AgentBilling},
		{name: "billing before order", text: "billing for my order", want: contractx.AgentBilling},
		{name: "tracking", text: "where is my tracking number", want: contractx.AgentOrder},
		{name: "delivery", text: "When will my delivery arrive?", want: contractx.AgentOrder},
		{name: "shipment", text: "Has my shipment been sent?", want: contractx.AgentOrder},
		{name: "orders uppercase", text: "LIST MY ORDERS", want: contractx.AgentOrder},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ClassifyKeywords(tc.text).Label()
			if !ok {
				t.Fatalf("ClassifyKeywords(%q) unresolved, want %s", tc.text, tc.want)
			}
			if got != tc.want {
				t.Fatalf("ClassifyKeywords(%q) = %s, want %s", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyKeywordsUnresolved(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"hello there",
		"and the amount?",
		"passwordless login is neat",
		"preorders are open",
		"recharged my phone",
		"XORD-1001",
	}
	for _, text := range cases {
		if res := ClassifyKeywords(text); res != Unresolved() {
			t.Fatalf("ClassifyKeywords(%q) = %s, want unresolved", text, res)
		}
	}
}

func TestResultString(t *testing.T) {
	t.Parallel()

	if got := Resolved(contractx.AgentOrder).String(); got != "order" {
		t.Fatalf("unexpected resolved string: %s", got)
	}
	if got := Unresolved().String(); got != "unresolved" {
		t.Fatalf("unexpected unresolved string: %s", got)
	}
}
