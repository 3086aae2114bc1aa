package orchestrator

import (
	"context"
	"errors"
	"unicode/utf8"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const (
	titleMaxRunes = 60
	titleEllipsis = "..."

	PersistSaved   = "saved"
	PersistSkipped = "skipped"
	PersistFailed  = "failed"
)

// DeriveTitle keeps the first 60 characters of the first user message and
// marks the cut with an ellipsis.
func DeriveTitle(firstUserMessage string) string {
	if utf8.RuneCountInString(firstUserMessage) <= titleMaxRunes {
		return firstUserMessage
	}
	return string([]rune(firstUserMessage)[:titleMaxRunes]) + titleEllipsis
}

// persistAsync saves the text that actually reached the caller. A stream
// that delivered nothing, for example because the caller left before the
// first chunk, leaves no assistant message behind.
func (o *Orchestrator) persistAsync(
	conversationID string,
	label contractx.AgentLabel,
	delivered string,
	relayErr error,
) {
	logger := o.logger.With().
		Str("conversation_id", conversationID).
		Str("agent", string(label)).
		Logger()

	if relayErr != nil {
		logger.Warn().Err(relayErr).Int("delivered_bytes", len(delivered)).Msg("stream ended early")
	}
	if delivered == "" {
		o.observePersist(PersistSkipped)
		logger.Info().Msg("nothing delivered, skipping assistant message")
		return
	}

	o.pending.Add(1)
	go func() {
		defer o.pending.Done()

		ctx, cancel := context.WithTimeout(context.Background(), o.cfg.PersistTimeout)
		defer cancel()

		if err := o.persist(ctx, conversationID, label, delivered); err != nil {
			o.observePersist(PersistFailed)
			logger.Error().Err(err).Msg("persist assistant message failed")
			return
		}
		o.observePersist(PersistSaved)
	}()
}

func (o *Orchestrator) persist(
	ctx context.Context,
	conversationID string,
	label contractx.AgentLabel,
	content string,
) error {
	var msg *contractx.Message
	err := o.retry(ctx, func(ctx context.Context) error {
		var err error
		msg, err = o.store.AppendMessage(ctx, conversationID, contractx.RoleAssistant, content, label)
		return err
	})
	if err != nil {
		return err
	}

	var title string
	err = o.retry(ctx, func(ctx context.Context) error {
		var err error
		title, err = o.ensureTitle(ctx, conversationID)
		return err
	})
	if err != nil {
		return err
	}

	if o.notifier != nil {
		event := ConversationEvent{
			ConversationID: conversationID,
			AgentType:      label,
			MessageID:      msg.ID,
			Title:          title,
			OccurredAt:     o.now().UTC(),
		}
		if err := o.notifier.NotifyConversationUpdated(ctx, event); err != nil {
			o.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("notify conversation updated failed")
		}
	}
	return nil
}

// ensureTitle sets the title once, from the first user message, and
// returns the current title.
func (o *Orchestrator) ensureTitle(ctx context.Context, conversationID string) (string, error) {
	conv, err := o.store.GetConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if conv == nil {
		return "", nil
	}
	if conv.Title != "" {
		return conv.Title, nil
	}

	history, err := o.store.ListMessages(ctx, conversationID)
	if err != nil {
		return "", err
	}
	for _, m := range history {
		if m.Role != contractx.RoleUser {
			continue
		}
		title := DeriveTitle(m.Content)
		if err := o.store.UpdateConversationTitle(ctx, conversationID, title); err != nil {
			return "", err
		}
		return title, nil
	}
	return "", nil
}

func (o *Orchestrator) retry(ctx context.Context, fn func(context.Context) error) error {
	attempts := o.cfg.PersistAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == attempts || !shouldRetry(ctx, err) {
			break
		}
	}
	return lastErr
}

func shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return !errors.Is(err, contractx.ErrNotFound)
}

func (o *Orchestrator) observePersist(outcome string) {
	if o.recorder != nil {
		o.recorder.ObservePersist(outcome)
	}
}
