package classifier

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// CarryoverResolver is the conversation-aware second stage.
type CarryoverResolver interface {
	Resolve(ctx context.Context, text string, conversationID string) (Result, error)
}

// ModelClassifier is the terminal stage; it must always yield a label.
type ModelClassifier interface {
	ClassifyViaModel(ctx context.Context, text string) (contractx.AgentLabel, error)
}

type PipelineOption func(*Pipeline)

func WithLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline runs keyword, carryover and model stages in that order and stops
// at the first resolved label.
type Pipeline struct {
	carryover CarryoverResolver
	model     ModelClassifier
	logger    zerolog.Logger
}

var _ contractx.IntentClassifier = (*Pipeline)(nil)

// NewPipeline accepts nil stages; a missing stage is skipped and support is
// returned when nothing resolves.
func NewPipeline(carryover CarryoverResolver, model ModelClassifier, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		carryover: carryover,
		model:     model,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Pipeline) Classify(ctx context.Context, text string, conversationID string) contractx.Classification {
	if label, ok := ClassifyKeywords(text).Label(); ok {
		return contractx.Classification{Label: label, Stage: contractx.StageKeyword}
	}

	if p.carryover != nil {
		res, err := p.carryover.Resolve(ctx, text, conversationID)
		if err != nil {
			p.logger.Warn().Err(err).
				Str("conversation_id", conversationID).
				Msg("carryover lookup failed, continuing with model classification")
		}
		if label, ok := res.Label(); ok {
			return contractx.Classification{Label: label, Stage: contractx.StageCarryover}
		}
	}

	if p.model != nil {
		label, err := p.model.ClassifyViaModel(ctx, text)
		if err != nil {
			p.logger.Warn().Err(err).Msg("model classification failed, routing to support")
		}
		if _, ok := contractx.ParseAgentLabel(string(label)); ok {
			return contractx.Classification{Label: label, Stage: contractx.StageModel}
		}
	}

	return contractx.Classification{Label: contractx.AgentSupport, Stage: contractx.StageDefault}
}
