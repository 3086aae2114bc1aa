package contract

import (
	"strings"
	"time"
)

// AgentLabel names one of the domain agents a message can be dispatched to.
type AgentLabel string

const (
	AgentOrder   AgentLabel = "order"
	AgentBilling AgentLabel = "billing"
	AgentSupport AgentLabel = "support"
)

// AgentLabels returns every label in registry order.
func AgentLabels() []AgentLabel {
	return []AgentLabel{AgentOrder, AgentBilling, AgentSupport}
}

// ParseAgentLabel accepts only the three known labels, case-insensitively.
func ParseAgentLabel(raw string) (AgentLabel, bool) {
	switch AgentLabel(strings.ToLower(strings.TrimSpace(raw))) {
	case AgentOrder:
		return AgentOrder, true
	case AgentBilling:
		return AgentBilling, true
	case AgentSupport:
		return AgentSupport, true
	default:
		return "", false
	}
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type AgentDefinition struct {
	Label        AgentLabel `json:"type"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Instructions string     `json:"-"`
}

type Capability struct {
	Tool        string `json:"tool"`
	Description string `json:"description"`
}

type Conversation struct {
	ID        string     `json:"id"`
	Title     string     `json:"title,omitempty"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"createdAt"`
}

type Message struct {
	ID             string     `json:"id"`
	ConversationID string     `json:"conversationId"`
	Role           Role       `json:"role"`
	Content        string     `json:"content"`
	AgentLabel     AgentLabel `json:"agentType,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type Order struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Status        string
	Tracking      string
	Items         []OrderItem
	Total         float64
	CreatedAt     time.Time
	DeliveryDate  *time.Time
}

// ComputedTotal sums the line items, falling back to the stored total for
// orders recorded without items.
func (o *Order) ComputedTotal() float64 {
	if o == nil {
		return 0
	}
	if len(o.Items) == 0 {
		return o.Total
	}
	var sum float64
	for _, it := range o.Items {
		sum += float64(it.Quantity) * it.Price
	}
	return sum
}

type Invoice struct {
	ID            string
	CustomerName  string
	CustomerEmail string
	Amount        float64
	Status        string
	Description   string
	CreatedAt     time.Time
	DueDate       time.Time
}

// ClassificationStage names the classifier stage that produced a label.
type ClassificationStage string

const (
	StageKeyword   ClassificationStage = "keyword"
	StageCarryover ClassificationStage = "carryover"
	StageModel     ClassificationStage = "model"
	StageDefault   ClassificationStage = "default"
)

type Classification struct {
	Label AgentLabel
	Stage ClassificationStage
}
