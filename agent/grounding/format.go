package grounding

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const (
	// Header precedes the fragments appended to an agent's instructions.
	Header = "\n\n--- Data from tools ---\n"

	deliveryTBD = "TBD"
)

// money rounds to cents and drops trailing zeros: 77.5 renders as $77.5.
func money(v float64) string {
	return "$" + strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func date(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func orderFragment(id string, o *contractx.Order) string {
	if o == nil {
		return fmt.Sprintf("[Tool Result] Order %s: not found in the system.", id)
	}

	items := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, fmt.Sprintf("%s x%d (%s)", it.Name, it.Quantity, money(it.Price)))
	}
	tracking := o.Tracking
	if tracking == "" {
		tracking = "N/A"
	}
	delivery := deliveryTBD
	if o.DeliveryDate != nil {
		delivery = date(*o.DeliveryDate)
	}

	return fmt.Sprintf(
		`[Tool Result] Order %s: customer="%s", email="%s", status="%s", tracking="%s", items=[%s], total=%s, ordered=%s, delivery=%s`,
		id, o.CustomerName, o.CustomerEmail, o.Status, tracking,
		strings.Join(items, ", "), money(o.ComputedTotal()), date(o.CreatedAt), delivery,
	)
}

func orderListFragment(orders []*contractx.Order) string {
	var b strings.Builder
	b.WriteString("[Tool Result] No specific order ID was mentioned. Available orders:")
	for _, o := range orders {
		fmt.Fprintf(&b, "\n- %s: customer=\"%s\", status=\"%s\", total=%s", o.ID, o.CustomerName, o.Status, money(o.ComputedTotal()))
	}
	return b.String()
}

func invoiceFragment(id string, inv *contractx.Invoice) string {
	if inv == nil {
		return fmt.Sprintf("[Tool Result] Invoice %s: not found in the system.", id)
	}
	return fmt.Sprintf(
		`[Tool Result] Invoice %s: customer="%s", email="%s", amount=%s, status="%s", description="%s", created=%s, due=%s`,
		id, inv.CustomerName, inv.CustomerEmail, money(inv.Amount), inv.Status, inv.Description,
		date(inv.CreatedAt), date(inv.DueDate),
	)
}

func invoiceListFragment(invoices []*contractx.Invoice) string {
	var b strings.Builder
	b.WriteString("[Tool Result] All invoices in the system:")
	for _, inv := range invoices {
		fmt.Fprintf(&b, "\n- %s: customer=\"%s\", amount=%s, status=\"%s\", due=%s", inv.ID, inv.CustomerName, money(inv.Amount), inv.Status, date(inv.DueDate))
	}
	return b.String()
}

func faqFragment(answer string) string {
	return fmt.Sprintf(`[Tool Result] FAQ lookup: "%s"`, answer)
}

func historyFragment(messages []*contractx.Message) string {
	var b strings.Builder
	b.WriteString("[Tool Result] Conversation history:")
	for _, m := range messages {
		fmt.Fprintf(&b, "\n%s: %s", m.Role, m.Content)
	}
	return b.String()
}

// Render joins fragments under Header, or returns "" when there are none.
func Render(fragments []string) string {
	if len(fragments) == 0 {
		return ""
	}
	return Header + strings.Join(fragments, "\n")
}
