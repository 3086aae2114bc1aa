package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

// ErrSinkClosed reports that the caller stopped accepting bytes mid-stream.
var ErrSinkClosed = errors.New("stream sink closed")

// ModelProvider resolves the chat model that generates replies for an agent.
type ModelProvider interface {
	ChatModel(label contractx.AgentLabel) (einomodel.BaseChatModel, error)
}

// StatusLine is written ahead of any generated text. Consumers strip this
// exact line before treating the body as assistant content.
func StatusLine(label contractx.AgentLabel) string {
	return fmt.Sprintf("__STATUS__:Routed to %s agent\n", label)
}

type Streamer struct {
	models ModelProvider
}

func New(models ModelProvider) (*Streamer, error) {
	if models == nil {
		return nil, errors.New("model provider is required")
	}
	return &Streamer{models: models}, nil
}

// BuildMessages frames the grounding payload as part of the system
// instructions and replays history as plain turns.
func BuildMessages(def contractx.AgentDefinition, grounding string, history []*contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history)+1)
	out = append(out, schema.SystemMessage(def.Instructions+grounding))
	for _, m := range history {
		if m == nil {
			continue
		}
		switch m.Role {
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}

// Open issues the generation request. No bytes are written until Relay.
func (s *Streamer) Open(
	ctx context.Context,
	def contractx.AgentDefinition,
	grounding string,
	history []*contractx.Message,
) (*Stream, error) {
	chatModel, err := s.models.ChatModel(def.Label)
	if err != nil {
		return nil, err
	}

	reader, err := chatModel.Stream(ctx, BuildMessages(def, grounding, history))
	if err != nil {
		return nil, fmt.Errorf("%w: open %s stream: %v", contractx.ErrUpstream, def.Label, err)
	}
	return &Stream{label: def.Label, reader: reader}, nil
}

// Stream is one in-flight generation. It must be relayed or closed exactly once.
type Stream struct {
	label  contractx.AgentLabel
	reader *schema.StreamReader[*schema.Message]
}

func NewStream(label contractx.AgentLabel, reader *schema.StreamReader[*schema.Message]) *Stream {
	return &Stream{label: label, reader: reader}
}

func (s *Stream) Label() contractx.AgentLabel {
	return s.label
}

func (s *Stream) Close() {
	if s != nil && s.reader != nil {
		s.reader.Close()
	}
}

// Relay writes the status line, then each generated chunk in arrival order,
// flushing after every write when w supports it. The next chunk is not read
// until the previous one has been written. It returns the generated text
// that reached w, even when it stops early.
func (s *Stream) Relay(ctx context.Context, w io.Writer) (string, error) {
	defer s.Close()

	flusher, _ := w.(http.Flusher)
	write := func(p string) error {
		if _, err := io.WriteString(w, p); err != nil {
			return fmt.Errorf("%w: %v", ErrSinkClosed, err)
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	}

	if err := write(StatusLine(s.label)); err != nil {
		return "", err
	}

	var delivered strings.Builder
	for {
		if err := ctx.Err(); err != nil {
			return delivered.String(), err
		}

		chunk, err := s.reader.Recv()
		if errors.Is(err, io.EOF) {
			return delivered.String(), nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return delivered.String(), ctxErr
			}
			return delivered.String(), fmt.Errorf("%w: read %s stream: %v", contractx.ErrUpstream, s.label, err)
		}
		if chunk == nil || chunk.Content == "" {
			continue
		}

		if err := write(chunk.Content); err != nil {
			return delivered.String(), err
		}
		delivered.WriteString(chunk.Content)
	}
}
