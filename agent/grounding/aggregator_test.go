package grounding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

type fakeRecords struct {
	orders   map[string]*contractx.Order
	invoices map[string]*contractx.Invoice
	history  map[string][]*contractx.Message
	err      error

	listOrderCalls   int
	listInvoiceCalls int
}

func (f *fakeRecords) GetOrder(_ context.Context, id string) (*contractx.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orders[id], nil
}

func (f *fakeRecords) ListOrders(context.Context) ([]*contractx.Order, error) {
	f.listOrderCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []*contractx.Order{f.orders["ORD-1001"], f.orders["ORD-1002"]}, nil
}

func (f *fakeRecords) GetInvoice(_ context.Context, id string) (*contractx.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.invoices[id], nil
}

func (f *fakeRecords) ListInvoices(context.Context) ([]*contractx.Invoice, error) {
	f.listInvoiceCalls++
	if f.err != nil {
		return nil, f.err
	}
	return []*contractx.Invoice{f.invoices["INV-2001"]}, nil
}

func (f *fakeRecords) AppendMessage(context.Context, string, contractx.Role, string, contractx.AgentLabel) (*contractx.Message, error) {
	return nil, nil
}

func (f *fakeRecords) ListMessages(_ context.Context, conversationID string) ([]*contractx.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.history[conversationID], nil
}

func (f *fakeRecords) MostRecentAssistantMessage(context.Context, string) (*contractx.Message, error) {
	return nil, nil
}

func day(s string) time.Time {
	t, _ := time.Parse(time.DateOnly, s)
	return t
}

func newFakeRecords() *fakeRecords {
	delivery := day("2026-02-14")
	return &fakeRecords{
		orders: map[string]*contractx.Order{
			"ORD-1001": {
				ID: "ORD-1001", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com",
				Status: "shipped", Tracking: "TRK-ABC123",
				Items: []contractx.OrderItem{
					{Name: "Wireless Headphones", Quantity: 1, Price: 79.99},
					{Name: "USB-C Cable", Quantity: 2, Price: 9.99},
				},
				Total: 99.97, CreatedAt: day("2026-01-15"), DeliveryDate: &delivery,
			},
			"ORD-1002": {
				ID: "ORD-1002", CustomerName: "Bob Smith", CustomerEmail: "bob@example.com",
				Status: "processing",
				Items:  []contractx.OrderItem{{Name: "Mechanical Keyboard", Quantity: 1, Price: 149.99}},
				Total:  149.99, CreatedAt: day("2026-02-08"),
			},
		},
		invoices: map[string]*contractx.Invoice{
			"INV-2001": {
				ID: "INV-2001", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com",
				Amount: 99.97, Status: "paid", Description: "Payment for order ORD-1001",
				CreatedAt: day("2026-01-15"), DueDate: day("2026-02-15"),
			},
		},
		history: map[string][]*contractx.Message{
			"conv-1": {
				{Role: contractx.RoleUser, Content: "hi"},
				{Role: contractx.RoleAssistant, Content: "hello, how can I help?"},
			},
		},
	}
}

func newTestAggregator(f *fakeRecords) *Aggregator {
	return NewAggregator(f, f, f)
}

func TestExtractReferences(t *testing.T) {
	t.Parallel()

	refs := ExtractReferences("compare ord-1001 with ORD-1002, and ord-1001 again; also inv-2001")
	if strings.Join(refs.OrderIDs, ",") != "ORD-1001,ORD-1002" {
		t.Fatalf("unexpected order ids: %#v", refs.OrderIDs)
	}
	if strings.Join(refs.InvoiceIDs, ",") != "INV-2001" {
		t.Fatalf("unexpected invoice ids: %#v", refs.InvoiceIDs)
	}
}

func TestGatherOrderByID(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentOrder, "where is ord-1001?", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	want := Header + `[Tool Result] Order ORD-1001: customer="Alice Johnson", email="alice@example.com", status="shipped", tracking="TRK-ABC123", items=[Wireless Headphones x1 ($79.99), USB-C Cable x2 ($9.99)], total=$99.97, ordered=2026-01-15, delivery=2026-02-14`
	if got != want {
		t.Fatalf("unexpected payload:\n got: %q\nwant: %q", got, want)
	}
}

func TestGatherOrderWithoutDeliveryOrTracking(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentOrder, "ORD-1002", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if !strings.Contains(got, `tracking="N/A"`) || !strings.HasSuffix(got, "delivery=TBD") {
		t.Fatalf("expected sentinels in payload: %q", got)
	}
}

func TestGatherUnknownOrder(t *testing.T) {
	t.Parallel()

	f := newFakeRecords()
	got, err := newTestAggregator(f).Gather(context.Background(), contractx.AgentOrder, "ORD-9999", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if got != Header+"[Tool Result] Order ORD-9999: not found in the system." {
		t.Fatalf("unexpected payload: %q", got)
	}
	if f.listOrderCalls != 0 {
		t.Fatal("listing must not run when an id was mentioned")
	}
}

func TestGatherOrderListing(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentOrder, "show my orders", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	want := Header + "[Tool Result] No specific order ID was mentioned. Available orders:\n" +
		`- ORD-1001: customer="Alice Johnson", status="shipped", total=$99.97` + "\n" +
		`- ORD-1002: customer="Bob Smith", status="processing", total=$149.99`
	if got != want {
		t.Fatalf("unexpected payload:\n got: %q\nwant: %q", got, want)
	}
}

func TestGatherBillingListingAndPassingOrder(t *testing.T) {
	t.Parallel()

	f := newFakeRecords()
	got, err := newTestAggregator(f).Gather(context.Background(), contractx.AgentBilling, "was ORD-1002 charged?", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	lines := strings.Split(strings.TrimPrefix(got, Header), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected order fragment plus invoice listing, got %q", got)
	}
	if !strings.HasPrefix(lines[0], "[Tool Result] Order ORD-1002:") {
		t.Fatalf("order fragment must come first: %q", lines[0])
	}
	if lines[1] != "[Tool Result] All invoices in the system:" {
		t.Fatalf("unexpected listing header: %q", lines[1])
	}
	if lines[2] != `- INV-2001: customer="Alice Johnson", amount=$99.97, status="paid", due=2026-02-15` {
		t.Fatalf("unexpected listing row: %q", lines[2])
	}
	if f.listOrderCalls != 0 {
		t.Fatal("billing agent must not list orders")
	}
}

func TestGatherInvoiceByID(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentBilling, "INV-2001 and INV-2009", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	want := Header +
		`[Tool Result] Invoice INV-2001: customer="Alice Johnson", email="alice@example.com", amount=$99.97, status="paid", description="Payment for order ORD-1001", created=2026-01-15, due=2026-02-15` + "\n" +
		"[Tool Result] Invoice INV-2009: not found in the system."
	if got != want {
		t.Fatalf("unexpected payload:\n got: %q\nwant: %q", got, want)
	}
}

func TestGatherSupportAddsFAQAndHistory(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentSupport, "How do I reset my password?", "conv-1")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	want := Header +
		`[Tool Result] FAQ lookup: "` + faqPasswordAnswer + `"` + "\n" +
		"[Tool Result] Conversation history:\nuser: hi\nassistant: hello, how can I help?"
	if got != want {
		t.Fatalf("unexpected payload:\n got: %q\nwant: %q", got, want)
	}
}

func TestGatherSupportWithoutHistory(t *testing.T) {
	t.Parallel()

	got, err := newTestAggregator(newFakeRecords()).Gather(context.Background(), contractx.AgentSupport, "hello", "conv-empty")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if got != Header+`[Tool Result] FAQ lookup: "`+FAQNoMatch+`"` {
		t.Fatalf("unexpected payload: %q", got)
	}
}

func TestGatherEmptyPayloadHasNoHeader(t *testing.T) {
	t.Parallel()

	// Order and billing always ground on a listing and support on the FAQ,
	// so only a label with no default scope yields an empty payload.
	f := &fakeRecords{}
	got, err := NewAggregator(f, f, nil).Gather(context.Background(), "", "nothing here", "")
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty payload, got %q", got)
	}
}

func TestGatherPropagatesStoreErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	f := newFakeRecords()
	f.err = boom
	_, err := newTestAggregator(f).Gather(context.Background(), contractx.AgentOrder, "ORD-1001", "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	if got := Render(nil); got != "" {
		t.Fatalf("Render(nil) = %q", got)
	}
}
