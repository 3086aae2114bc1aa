package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

var seedOrders = []*orderModel{
	{
		ID: "ORD-1001", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com",
		Status: "shipped", Tracking: "TRK-ABC123",
		Items: []contractx.OrderItem{
			{Name: "Wireless Headphones", Quantity: 1, Price: 79.99},
			{Name: "USB-C Cable", Quantity: 2, Price: 9.99},
		},
		Total: 99.97, CreatedAt: day("2026-01-15"), DeliveryDate: dayPtr("2026-02-14"),
	},
	{
		ID: "ORD-1002", CustomerName: "Bob Smith", CustomerEmail: "bob@example.com",
		Status: "processing",
		Items: []contractx.OrderItem{
			{Name: "Mechanical Keyboard", Quantity: 1, Price: 149.99},
		},
		Total: 149.99, CreatedAt: day("2026-02-08"),
	},
	{
		ID: "ORD-1003", CustomerName: "Carol Davis", CustomerEmail: "carol@example.com",
		Status: "delivered", Tracking: "TRK-XYZ789",
		Items: []contractx.OrderItem{
			{Name: "Monitor Stand", Quantity: 1, Price: 45.00},
			{Name: "Desk Lamp", Quantity: 1, Price: 32.50},
		},
		Total: 77.50, CreatedAt: day("2026-01-20"), DeliveryDate: dayPtr("2026-01-28"),
	},
	{
		ID: "ORD-1004", CustomerName: "David Lee", CustomerEmail: "david@example.com",
		Status: "shipped", Tracking: "TRK-DEF456",
		Items: []contractx.OrderItem{
			{Name: "Laptop Backpack", Quantity: 1, Price: 59.99},
			{Name: "Mouse Pad XL", Quantity: 1, Price: 19.99},
			{Name: "Webcam HD", Quantity: 1, Price: 44.99},
		},
		Total: 124.97, CreatedAt: day("2026-02-01"), DeliveryDate: dayPtr("2026-02-12"),
	},
	{
		ID: "ORD-1005", CustomerName: "Eva Martinez", CustomerEmail: "eva@example.com",
		Status: "cancelled",
		Items: []contractx.OrderItem{
			{Name: "Smart Watch", Quantity: 1, Price: 299.99},
		},
		Total: 299.99, CreatedAt: day("2026-02-05"),
	},
	{
		ID: "ORD-1006", CustomerName: "Frank Wilson", CustomerEmail: "frank@example.com",
		Status: "processing",
		Items: []contractx.OrderItem{
			{Name: "Noise Cancelling Earbuds", Quantity: 2, Price: 129.99},
		},
		Total: 259.98, CreatedAt: day("2026-02-10"),
	},
	{
		ID: "ORD-1007", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com",
		Status: "delivered", Tracking: "TRK-GHI012",
		Items: []contractx.OrderItem{
			{Name: "Phone Case", Quantity: 1, Price: 24.99},
			{Name: "Screen Protector", Quantity: 2, Price: 12.99},
		},
		Total: 50.97, CreatedAt: day("2025-12-20"), DeliveryDate: dayPtr("2025-12-27"),
	},
}

var seedInvoices = []*invoiceModel{
	{ID: "INV-2001", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com", Amount: 99.97, Status: "paid",
		Description: "Payment for order ORD-1001 - Wireless Headphones + USB-C Cables", CreatedAt: day("2026-01-15"), DueDate: day("2026-02-15")},
	{ID: "INV-2002", CustomerName: "Bob Smith", CustomerEmail: "bob@example.com", Amount: 149.99, Status: "pending",
		Description: "Payment for order ORD-1002 - Mechanical Keyboard", CreatedAt: day("2026-02-08"), DueDate: day("2026-03-08")},
	{ID: "INV-2003", CustomerName: "Carol Davis", CustomerEmail: "carol@example.com", Amount: 77.50, Status: "paid",
		Description: "Payment for order ORD-1003 - Monitor Stand + Desk Lamp", CreatedAt: day("2026-01-20"), DueDate: day("2026-02-20")},
	{ID: "INV-2004", CustomerName: "David Lee", CustomerEmail: "david@example.com", Amount: 124.97, Status: "pending",
		Description: "Payment for order ORD-1004 - Laptop Backpack + Mouse Pad + Webcam", CreatedAt: day("2026-02-01"), DueDate: day("2026-03-01")},
	{ID: "INV-2005", CustomerName: "Eva Martinez", CustomerEmail: "eva@example.com", Amount: 299.99, Status: "refunded",
		Description: "Refund for cancelled order ORD-1005 - Smart Watch", CreatedAt: day("2026-02-05"), DueDate: day("2026-03-05")},
	{ID: "INV-2006", CustomerName: "Frank Wilson", CustomerEmail: "frank@example.com", Amount: 259.98, Status: "pending",
		Description: "Payment for order ORD-1006 - Noise Cancelling Earbuds x2", CreatedAt: day("2026-02-10"), DueDate: day("2026-03-10")},
	{ID: "INV-2007", CustomerName: "Alice Johnson", CustomerEmail: "alice@example.com", Amount: 50.97, Status: "overdue",
		Description: "Payment for order ORD-1007 - Phone Case + Screen Protectors", CreatedAt: day("2025-12-20"), DueDate: day("2026-01-20")},
}

type seedTurn struct {
	role    contractx.Role
	content string
	agent   contractx.AgentLabel
}

var seedConversations = []struct {
	title string
	turns []seedTurn
}{
	{
		title: "Order ORD-1001 status inquiry",
		turns: []seedTurn{
			{contractx.RoleUser, "Hi, I need help with my order ORD-1001.", ""},
			{contractx.RoleAssistant, "I found your order ORD-1001. It is currently shipped with tracking number TRK-ABC123. The estimated delivery date is February 14, 2026.", contractx.AgentOrder},
			{contractx.RoleUser, "When will it arrive?", ""},
			{contractx.RoleAssistant, "Your order ORD-1001 is expected to be delivered by February 14, 2026. The tracking number is TRK-ABC123.", contractx.AgentOrder},
		},
	},
	{
		title: "Invoice INV-2002 payment question",
		turns: []seedTurn{
			{contractx.RoleUser, "Can you show me the details for invoice INV-2002?", ""},
			{contractx.RoleAssistant, "Invoice INV-2002 is for $149.99 and is currently pending. The due date is March 8, 2026.", contractx.AgentBilling},
		},
	},
	{
		title: "Password reset help",
		turns: []seedTurn{
			{contractx.RoleUser, "How do I reset my password?", ""},
			{contractx.RoleAssistant, "To reset your password, go to Settings > Account > Change Password. You can also click \"Forgot Password\" on the login page.", contractx.AgentSupport},
		},
	},
}

// Seed inserts the demo orders, invoices and conversations. Existing records
// are left untouched, and conversations are only seeded into an empty table.
func (s *BunStore) Seed(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&seedOrders).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
		if _, err := tx.NewInsert().Model(&seedInvoices).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
			return fmt.Errorf("seed invoices: %w", err)
		}

		count, err := tx.NewSelect().Model((*conversationModel)(nil)).Count(ctx)
		if err != nil {
			return fmt.Errorf("count conversations: %w", err)
		}
		if count > 0 {
			return nil
		}

		base := s.now().UTC()
		for i, seed := range seedConversations {
			conv := &conversationModel{
				ID:        uuid.NewString(),
				Title:     seed.title,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}
			if _, err := tx.NewInsert().Model(conv).Exec(ctx); err != nil {
				return fmt.Errorf("seed conversation: %w", err)
			}
			for j, turn := range seed.turns {
				msg := &messageModel{
					ID:             uuid.NewString(),
					ConversationID: conv.ID,
					Role:           string(turn.role),
					Content:        turn.content,
					AgentType:      string(turn.agent),
					CreatedAt:      conv.CreatedAt.Add(time.Duration(j) * time.Second),
				}
				if _, err := tx.NewInsert().Model(msg).Exec(ctx); err != nil {
					return fmt.Errorf("seed message: %w", err)
				}
			}
		}
		return nil
	})
}
