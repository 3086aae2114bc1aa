package classifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func TestCarryoverResolve(t *testing.T) {
	t.Parallel()

	store := &fakeMessageStore{lastAssistant: map[string]*contractx.Message{
		"conv-billing": assistantSaying("Invoice INV-2002 is still pending."),
		"conv-order":   assistantSaying("Your package has shipped."),
		"conv-both":    assistantSaying("The order total matches the payment we received."),
		"conv-other":   assistantSaying("Glad I could help!"),
	}}
	c := NewCarryover(store)

	cases := []struct {
		conv string
		want Result
	}{
		{conv: "conv-billing", want: Resolved(contractx.AgentBilling)},
		{conv: "conv-order", want: Resolved(contractx.AgentOrder)},
		{conv: "conv-both", want: Resolved(contractx.AgentBilling)},
		{conv: "conv-other", want: Unresolved()},
		{conv: "conv-empty", want: Unresolved()},
	}
	for _, tc := range cases {
		got, err := c.Resolve(context.Background(), "ok, and then?", tc.conv)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", tc.conv, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%s) = %s, want %s", tc.conv, got, tc.want)
		}
	}
}

func TestCarryoverSkipsLongOrAnonymousMessages(t *testing.T) {
	t.Parallel()

	store := &fakeMessageStore{lastAssistant: map[string]*contractx.Message{
		"conv-1": assistantSaying("Your invoice is paid."),
	}}
	c := NewCarryover(store)

	long := strings.Repeat("a", CarryoverMaxRunes)
	got, err := c.Resolve(context.Background(), long, "conv-1")
	if err != nil || got != Unresolved() {
		t.Fatalf("Resolve(long) = %s, %v; want unresolved", got, err)
	}

	got, err = c.Resolve(context.Background(), "yes", "")
	if err != nil || got != Unresolved() {
		t.Fatalf("Resolve(no conversation) = %s, %v; want unresolved", got, err)
	}

	if store.calls != 0 {
		t.Fatalf("expected no store reads, got %d", store.calls)
	}
}

func TestCarryoverStoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	c := NewCarryover(&fakeMessageStore{err: boom})

	got, err := c.Resolve(context.Background(), "yes", "conv-1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if got != Unresolved() {
		t.Fatalf("expected unresolved on error, got %s", got)
	}
}
