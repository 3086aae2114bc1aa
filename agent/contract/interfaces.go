package contract

import "context"

// OrderReader and InvoiceReader return (nil, nil) when the record is absent.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
}

type InvoiceReader interface {
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
	ListInvoices(ctx context.Context) ([]*Invoice, error)
}

type ConversationStore interface {
	CreateConversation(ctx context.Context) (*Conversation, error)
	// GetConversation returns (nil, nil) when absent. Messages are not loaded.
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context) ([]*Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	UpdateConversationTitle(ctx context.Context, id string, title string) error
}

type MessageStore interface {
	AppendMessage(ctx context.Context, conversationID string, role Role, content string, label AgentLabel) (*Message, error)
	// ListMessages is ordered by creation time ascending.
	ListMessages(ctx context.Context, conversationID string) ([]*Message, error)
	MostRecentAssistantMessage(ctx context.Context, conversationID string) (*Message, error)
}

// RecordStore is everything the dispatch core consumes from persistence.
type RecordStore interface {
	OrderReader
	InvoiceReader
	ConversationStore
	MessageStore
	Ping(ctx context.Context) error
}

// IntentClassifier always yields a label; support is the terminal fallback.
type IntentClassifier interface {
	Classify(ctx context.Context, text string, conversationID string) Classification
}

// ContextGatherer builds the grounding payload appended to an agent's
// instructions. An empty string means nothing was found to ground on.
type ContextGatherer interface {
	Gather(ctx context.Context, label AgentLabel, text string, conversationID string) (string, error)
}

type AgentRegistry interface {
	Definition(label AgentLabel) (AgentDefinition, error)
	Definitions() []AgentDefinition
	Capabilities(label AgentLabel) ([]Capability, error)
}
