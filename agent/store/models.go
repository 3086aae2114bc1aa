package store

import (
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

type orderModel struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID            string                `bun:"id,pk"`
	CustomerName  string                `bun:"customer_name,notnull"`
	CustomerEmail string                `bun:"customer_email,notnull"`
	Status        string                `bun:"status,notnull"`
	Tracking      string                `bun:"tracking,notnull"`
	Items         []contractx.OrderItem `bun:"items"`
	Total         float64               `bun:"total,notnull"`
	CreatedAt     time.Time             `bun:"created_at,notnull"`
	DeliveryDate  *time.Time            `bun:"delivery_date"`
}

type invoiceModel struct {
	bun.BaseModel `bun:"table:invoices,alias:i"`

	ID            string    `bun:"id,pk"`
	CustomerName  string    `bun:"customer_name,notnull"`
	CustomerEmail string    `bun:"customer_email,notnull"`
	Amount        float64   `bun:"amount,notnull"`
	Status        string    `bun:"status,notnull"`
	Description   string    `bun:"description,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull"`
	DueDate       time.Time `bun:"due_date,notnull"`
}

type conversationModel struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID        string          `bun:"id,pk"`
	Title     string          `bun:"title,nullzero"`
	CreatedAt time.Time       `bun:"created_at,notnull"`
	Messages  []*messageModel `bun:"rel:has-many,join:id=conversation_id"`
}

type messageModel struct {
	bun.BaseModel `bun:"table:messages,alias:m"`

	ID             string    `bun:"id,pk"`
	ConversationID string    `bun:"conversation_id,notnull"`
	Role           string    `bun:"role,notnull"`
	Content        string    `bun:"content,notnull"`
	AgentType      string    `bun:"agent_type,nullzero"`
	CreatedAt      time.Time `bun:"created_at,notnull"`
}

func (m *orderModel) toContract() *contractx.Order {
	out := &contractx.Order{
		ID:            m.ID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Status:        m.Status,
		Tracking:      m.Tracking,
		Items:         append([]contractx.OrderItem(nil), m.Items...),
		Total:         m.Total,
		CreatedAt:     m.CreatedAt.UTC(),
	}
	if m.DeliveryDate != nil {
		d := m.DeliveryDate.UTC()
		out.DeliveryDate = &d
	}
	return out
}

func (m *invoiceModel) toContract() *contractx.Invoice {
	return &contractx.Invoice{
		ID:            m.ID,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		Amount:        m.Amount,
		Status:        m.Status,
		Description:   m.Description,
		CreatedAt:     m.CreatedAt.UTC(),
		DueDate:       m.DueDate.UTC(),
	}
}

func (m *conversationModel) toContract() *contractx.Conversation {
	out := &contractx.Conversation{
		ID:        m.ID,
		Title:     m.Title,
		CreatedAt: m.CreatedAt.UTC(),
		Messages:  make([]*contractx.Message, 0, len(m.Messages)),
	}
	for _, msg := range m.Messages {
		out.Messages = append(out.Messages, msg.toContract())
	}
	return out
}

func (m *messageModel) toContract() *contractx.Message {
	return &contractx.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           contractx.Role(m.Role),
		Content:        m.Content,
		AgentLabel:     contractx.AgentLabel(m.AgentType),
		CreatedAt:      m.CreatedAt.UTC(),
	}
}
