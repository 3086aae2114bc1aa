package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

func TestPipelineKeywordShortCircuits(t *testing.T) {
	t.Parallel()

	store := &fakeMessageStore{}
	model := &fakeModelClassifier{label: contractx.AgentOrder}
	p := NewPipeline(NewCarryover(store), model, WithLogger(zerolog.Nop()))

	got := p.Classify(context.Background(), "Show me INV-2001", "conv-1")
	if got.Label != contractx.AgentBilling || got.Stage != contractx.StageKeyword {
		t.Fatalf("unexpected classification: %#v", got)
	}
	if store.calls != 0 || model.calls != 0 {
		t.Fatalf("later stages ran: store=%d model=%d", store.calls, model.calls)
	}
}

func TestPipelineCarryoverBeforeModel(t *testing.T) {
	t.Parallel()

	store := &fakeMessageStore{lastAssistant: map[string]*contractx.Message{
		"conv-1": assistantSaying("Your invoice INV-2002 is $149.99."),
	}}
	model := &fakeModelClassifier{label: contractx.AgentSupport}
	p := NewPipeline(NewCarryover(store), model, WithLogger(zerolog.Nop()))

	got := p.Classify(context.Background(), "and the amount?", "conv-1")
	if got.Label != contractx.AgentBilling || got.Stage != contractx.StageCarryover {
		t.Fatalf("unexpected classification: %#v", got)
	}
	if model.calls != 0 {
		t.Fatalf("model stage should not run, got %d calls", model.calls)
	}
}

func TestPipelineFallsBackToModel(t *testing.T) {
	t.Parallel()

	model := &fakeModelClassifier{label: contractx.AgentOrder}
	p := NewPipeline(NewCarryover(&fakeMessageStore{}), model, WithLogger(zerolog.Nop()))

	got := p.Classify(context.Background(), "where is my stuff", "conv-1")
	if got.Label != contractx.AgentOrder || got.Stage != contractx.StageModel {
		t.Fatalf("unexpected classification: %#v", got)
	}
	if len(model.texts) != 1 || model.texts[0] != "where is my stuff" {
		t.Fatalf("unexpected model input: %#v", model.texts)
	}
}

func TestPipelineCarryoverErrorStillClassifies(t *testing.T) {
	t.Parallel()

	model := &fakeModelClassifier{label: contractx.AgentBilling}
	p := NewPipeline(NewCarryover(&fakeMessageStore{err: errors.New("db down")}), model, WithLogger(zerolog.Nop()))

	got := p.Classify(context.Background(), "yes", "conv-1")
	if got.Label != contractx.AgentBilling || got.Stage != contractx.StageModel {
		t.Fatalf("unexpected classification: %#v", got)
	}
}

func TestPipelineModelFailureIsSupport(t *testing.T) {
	t.Parallel()

	model := &fakeModelClassifier{label: contractx.AgentSupport, err: contractx.ErrUpstream}
	p := NewPipeline(nil, model, WithLogger(zerolog.Nop()))

	got := p.Classify(context.Background(), "hmm", "")
	if got.Label != contractx.AgentSupport {
		t.Fatalf("unexpected label: %s", got.Label)
	}
}

func TestPipelineWithoutStagesDefaultsToSupport(t *testing.T) {
	t.Parallel()

	p := NewPipeline(nil, nil, WithLogger(zerolog.Nop()))
	got := p.Classify(context.Background(), "hmm", "")
	if got.Label != contractx.AgentSupport || got.Stage != contractx.StageDefault {
		t.Fatalf("unexpected classification: %#v", got)
	}

	off := &fakeModelClassifier{label: "weather"}
	got = NewPipeline(nil, off, WithLogger(zerolog.Nop())).Classify(context.Background(), "hmm", "")
	if got.Label != contractx.AgentSupport || got.Stage != contractx.StageDefault {
		t.Fatalf("unexpected classification for off-vocabulary model: %#v", got)
	}
}
