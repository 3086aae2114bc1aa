package grounding

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

var (
	orderRefPattern   = regexp.MustCompile(`(?i)\bORD-\d+`)
	invoiceRefPattern = regexp.MustCompile(`(?i)\bINV-\d+`)
)

// References holds entity ids found in a message, uppercased and in first
// occurrence order.
type References struct {
	OrderIDs   []string
	InvoiceIDs []string
}

func ExtractReferences(text string) References {
	return References{
		OrderIDs:   uniqueUpper(orderRefPattern.FindAllString(text, -1)),
		InvoiceIDs: uniqueUpper(invoiceRefPattern.FindAllString(text, -1)),
	}
}

func uniqueUpper(matches []string) []string {
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		id := strings.ToUpper(m)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Aggregator collects the records a message refers to, or the default
// listing for the agent's domain, and renders them as a grounding payload.
type Aggregator struct {
	orders   contractx.OrderReader
	invoices contractx.InvoiceReader
	messages contractx.MessageStore
}

var _ contractx.ContextGatherer = (*Aggregator)(nil)

func NewAggregator(
	orders contractx.OrderReader,
	invoices contractx.InvoiceReader,
	messages contractx.MessageStore,
) *Aggregator {
	return &Aggregator{orders: orders, invoices: invoices, messages: messages}
}

func (a *Aggregator) Gather(
	ctx context.Context,
	label contractx.AgentLabel,
	text string,
	conversationID string,
) (string, error) {
	refs := ExtractReferences(text)
	var fragments []string

	orderParts, err := a.orderFragments(ctx, label, refs.OrderIDs)
	if err != nil {
		return "", err
	}
	fragments = append(fragments, orderParts...)

	invoiceParts, err := a.invoiceFragments(ctx, label, refs.InvoiceIDs)
	if err != nil {
		return "", err
	}
	fragments = append(fragments, invoiceParts...)

	if label == contractx.AgentSupport {
		fragments = append(fragments, faqFragment(AnswerFAQ(text)))

		if strings.TrimSpace(conversationID) != "" && a.messages != nil {
			history, err := a.messages.ListMessages(ctx, conversationID)
			if err != nil {
				return "", fmt.Errorf("grounding history: %w", err)
			}
			if len(history) > 0 {
				fragments = append(fragments, historyFragment(history))
			}
		}
	}

	return Render(fragments), nil
}

func (a *Aggregator) orderFragments(ctx context.Context, label contractx.AgentLabel, ids []string) ([]string, error) {
	if len(ids) == 0 {
		if label != contractx.AgentOrder {
			return nil, nil
		}
		orders, err := a.orders.ListOrders(ctx)
		if err != nil {
			return nil, fmt.Errorf("grounding orders: %w", err)
		}
		return []string{orderListFragment(orders)}, nil
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		o, err := a.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("grounding order %s: %w", id, err)
		}
		out = append(out, orderFragment(id, o))
	}
	return out, nil
}

func (a *Aggregator) invoiceFragments(ctx context.Context, label contractx.AgentLabel, ids []string) ([]string, error) {
	if len(ids) == 0 {
		if label != contractx.AgentBilling {
			return nil, nil
		}
		invoices, err := a.invoices.ListInvoices(ctx)
		if err != nil {
			return nil, fmt.Errorf("grounding invoices: %w", err)
		}
		return []string{invoiceListFragment(invoices)}, nil
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		inv, err := a.invoices.GetInvoice(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("grounding invoice %s: %w", id, err)
		}
		out = append(out, invoiceFragment(id, inv))
	}
	return out, nil
}
