package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

const fallbackMaxTokens = 10

// Fallback asks the generation backend for a one-word label. It is only
// consulted when the deterministic stages are inconclusive.
type Fallback struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

func NewFallback(client *openai.Client, model string, systemPrompt string) (*Fallback, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("%w: router model is required", contractx.ErrValidation)
	}
	systemPrompt = strings.TrimSpace(systemPrompt)
	if systemPrompt == "" {
		return nil, fmt.Errorf("%w: router prompt", contractx.ErrPromptMissing)
	}
	return &Fallback{client: client, model: model, systemPrompt: systemPrompt}, nil
}

// ClassifyViaModel always returns a label. Backend failures and
// off-vocabulary answers resolve to support; the error is returned only so
// the caller can log it.
func (f *Fallback) ClassifyViaModel(ctx context.Context, text string) (contractx.AgentLabel, error) {
	completion, err := f.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(f.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(f.systemPrompt),
			openai.UserMessage(text),
		},
		MaxTokens:   openai.Int(fallbackMaxTokens),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return contractx.AgentSupport, fmt.Errorf("%w: router completion: %v", contractx.ErrUpstream, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.AgentSupport, fmt.Errorf("%w: router completion returned no choices", contractx.ErrUpstream)
	}

	return parseLabel(completion.Choices[0].Message.Content), nil
}

// parseLabel accepts only an exact label after trimming and lowercasing.
func parseLabel(raw string) contractx.AgentLabel {
	switch label := contractx.AgentLabel(strings.ToLower(strings.TrimSpace(raw))); label {
	case contractx.AgentOrder, contractx.AgentBilling, contractx.AgentSupport:
		return label
	default:
		return contractx.AgentSupport
	}
}
