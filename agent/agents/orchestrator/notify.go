package orchestrator

import (
	"context"
	"errors"

	qstashx "github.com/tanpawarit/Chative-Support-Dispatch/pkg/qstash"
)

// EventConversationUpdated is the event type published after a reply has
// been persisted.
const EventConversationUpdated = "conversation.updated"

type conversationUpdatedEnvelope struct {
	Type string            `json:"type"`
	Data ConversationEvent `json:"data"`
}

// QStashNotifier publishes conversation events to a QStash destination.
type QStashNotifier struct {
	client      *qstashx.Client
	destination string
}

var _ Notifier = (*QStashNotifier)(nil)

func NewQStashNotifier(client *qstashx.Client, destination string) (*QStashNotifier, error) {
	if client == nil {
		return nil, errors.New("qstash client is required")
	}
	if destination == "" {
		return nil, errors.New("qstash destination is required")
	}
	return &QStashNotifier{client: client, destination: destination}, nil
}

func (n *QStashNotifier) NotifyConversationUpdated(ctx context.Context, event ConversationEvent) error {
	_, err := n.client.PublishJSON(ctx, n.destination, conversationUpdatedEnvelope{
		Type: EventConversationUpdated,
		Data: event,
	})
	return err
}
