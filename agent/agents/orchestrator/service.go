package orchestrator

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
	nodex "github.com/tanpawarit/Chative-Support-Dispatch/agent/nodes"
	streamx "github.com/tanpawarit/Chative-Support-Dispatch/agent/stream"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Config struct {
	HistoryLimit    int           `envconfig:"HISTORY_LIMIT" split_words:"true" default:"20"`
	PersistAttempts int           `envconfig:"PERSIST_ATTEMPTS" split_words:"true" default:"1"`
	PersistTimeout  time.Duration `envconfig:"PERSIST_TIMEOUT" split_words:"true" default:"15s"`
}

// Store is the slice of the record store the orchestrator writes to.
type Store interface {
	contractx.ConversationStore
	contractx.MessageStore
}

// StreamOpener starts generation for a resolved agent.
type StreamOpener interface {
	Open(ctx context.Context, def contractx.AgentDefinition, grounding string, history []*contractx.Message) (*streamx.Stream, error)
}

// Notifier is told about conversations that gained a persisted reply.
type Notifier interface {
	NotifyConversationUpdated(ctx context.Context, event ConversationEvent) error
}

// Recorder receives dispatch outcomes for metrics.
type Recorder interface {
	ObserveClassification(label contractx.AgentLabel, stage contractx.ClassificationStage)
	ObservePersist(outcome string)
}

type ConversationEvent struct {
	ConversationID string               `json:"conversationId"`
	AgentType      contractx.AgentLabel `json:"agentType"`
	MessageID      string               `json:"messageId"`
	Title          string               `json:"title,omitempty"`
	OccurredAt     time.Time            `json:"occurredAt"`
}

type Option func(*Orchestrator)

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) {
		o.notifier = n
	}
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

type Orchestrator struct {
	store      Store
	classifier contractx.IntentClassifier
	registry   contractx.AgentRegistry
	gatherer   contractx.ContextGatherer
	streamer   StreamOpener

	notifier Notifier
	recorder Recorder
	logger   zerolog.Logger

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	cfg     Config
	now     func() time.Time
	pending sync.WaitGroup
}

func New(
	store Store,
	classifier contractx.IntentClassifier,
	registry contractx.AgentRegistry,
	gatherer contractx.ContextGatherer,
	streamer StreamOpener,
	cfg Config,
	opts ...Option,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("record store is required")
	}
	if classifier == nil {
		return nil, errors.New("intent classifier is required")
	}
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}
	if gatherer == nil {
		return nil, errors.New("context gatherer is required")
	}
	if streamer == nil {
		return nil, errors.New("streamer is required")
	}
	if cfg.PersistTimeout <= 0 {
		cfg.PersistTimeout = 15 * time.Second
	}

	o := &Orchestrator{
		store:      store,
		classifier: classifier,
		registry:   registry,
		gatherer:   gatherer,
		streamer:   streamer,
		logger:     log.Logger,
		cfg:        cfg,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	graphRunner, err := o.compileDispatchGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Dispatch resolves the conversation, persists the user turn, picks an agent
// and opens its generation stream. Nothing has been written to the caller
// when it returns.
func (o *Orchestrator) Dispatch(ctx context.Context, conversationID string, text string) (*Reply, error) {
	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		ConversationID: conversationID,
		Text:           text,
	})
	if err != nil {
		return nil, err
	}

	if o.recorder != nil {
		o.recorder.ObserveClassification(out.Classification.Label, out.Classification.Stage)
	}
	o.logger.Info().
		Str("conversation_id", out.ConversationID).
		Str("agent", string(out.Classification.Label)).
		Str("stage", string(out.Classification.Stage)).
		Bool("created", out.Created).
		Msg("message dispatched")

	st, err := o.streamer.Open(ctx, out.Definition, out.Grounding, out.History)
	if err != nil {
		return nil, err
	}

	return &Reply{
		ConversationID: out.ConversationID,
		Label:          out.Classification.Label,
		Stage:          out.Classification.Stage,
		stream:         st,
		orchestrator:   o,
	}, nil
}

// Wait blocks until every detached persistence task has finished.
func (o *Orchestrator) Wait() {
	o.pending.Wait()
}

// Reply is an opened dispatch waiting to be relayed to the caller.
type Reply struct {
	ConversationID string
	Label          contractx.AgentLabel
	Stage          contractx.ClassificationStage

	stream       *streamx.Stream
	orchestrator *Orchestrator
	once         sync.Once
}

// Relay streams the status line and generated text to w, then hands the
// delivered text to a detached persistence task. It does not wait for
// persistence. Relay may be called once; later calls are no-ops.
func (r *Reply) Relay(ctx context.Context, w io.Writer) error {
	var relayErr error
	r.once.Do(func() {
		delivered, err := r.stream.Relay(ctx, w)
		relayErr = err
		r.orchestrator.persistAsync(r.ConversationID, r.Label, delivered, err)
	})
	return relayErr
}

// Discard releases the generation stream without relaying it.
func (r *Reply) Discard() {
	r.once.Do(r.stream.Close)
}
