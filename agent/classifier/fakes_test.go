package classifier

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Dispatch/agent/contract"
)

type fakeMessageStore struct {
	lastAssistant map[string]*contractx.Message
	err           error
	calls         int
}

func (f *fakeMessageStore) AppendMessage(context.Context, string, contractx.Role, string, contractx.AgentLabel) (*contractx.Message, error) {
	return nil, nil
}

func (f *fakeMessageStore) ListMessages(context.Context, string) ([]*contractx.Message, error) {
	return nil, nil
}

func (f *fakeMessageStore) MostRecentAssistantMessage(_ context.Context, conversationID string) (*contractx.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.lastAssistant[conversationID], nil
}

func assistantSaying(content string) *contractx.Message {
	return &contractx.Message{Role: contractx.RoleAssistant, Content: content}
}

type fakeModelClassifier struct {
	label contractx.AgentLabel
	err   error
	calls int
	texts []string
}

func (f *fakeModelClassifier) ClassifyViaModel(_ context.Context, text string) (contractx.AgentLabel, error) {
	f.calls++
	f.texts = append(f.texts, strings.Clone(text))
	return f.label, f.err
}
