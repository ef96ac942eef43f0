package llm

import (
	"context"
	"strings"

	"github.com/napier-ai/napier/errors"
	"github.com/napier-ai/napier/session"
)

// Client is the gateway to a language model backend. One call is one
// request/response exchange: the backend is stateless apart from the history
// it is given. The system instructions are passed separately from the history
// and are not recorded in it.
type Client interface {
	Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error)
}

// New constructs the client for the configured provider. The provider's API
// credential is read from the environment; a missing credential is an error
// the caller should treat as fatal at startup.
func New(ctx context.Context, provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case "", "gemini":
		return NewGeminiClient(ctx, model)
	case "openai":
		return NewOpenAIClient(ctx, model)
	case "anthropic":
		return NewAnthropicClient(ctx, model)
	case "bedrock":
		return NewBedrockClient(ctx, model)
	default:
		return nil, errors.WithKind(errors.KindConfiguration, "unknown model provider '%s'", provider)
	}
}

// GenerateCall records the arguments of one MockClient.Generate invocation.
type GenerateCall struct {
	History     []session.Turn
	System      string
	Prompt      string
	Temperature float32
}

// MockClient is a scripted Client for tests. Replies are returned in order;
// the last reply repeats once the script is exhausted. If Err is set, every
// call fails with it.
type MockClient struct {
	Replies []string
	Err     error
	Calls   []GenerateCall
}

func (m *MockClient) Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error) {
	call := GenerateCall{System: system, Prompt: prompt, Temperature: temperature}
	call.History = append(call.History, history...)
	m.Calls = append(m.Calls, call)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Replies) == 0 {
		return "", nil
	}
	i := len(m.Calls) - 1
	if i >= len(m.Replies) {
		i = len(m.Replies) - 1
	}
	return m.Replies[i], nil
}
