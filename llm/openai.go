package llm

import (
	"context"
	"os"

	"github.com/napier-ai/napier/errors"
	"github.com/napier-ai/napier/session"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAIClient is a client for the OpenAI Chat Completion API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a new OpenAIClient. It requires the OPENAI_API_KEY
// environment variable to be set. It also supports OPENAI_BASE_URL for
// custom API endpoints.
func NewOpenAIClient(ctx context.Context, modelName string) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.WithKind(errors.KindConfiguration, "OPENAI_API_KEY environment variable not set")
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	// The v2 SDK returns a value; the struct holds a pointer.
	c := openai.NewClient(options...)
	return &OpenAIClient{client: &c, model: modelName}, nil
}

// Generate sends the history plus the new prompt to OpenAI and returns the
// generated text.
func (o *OpenAIClient) Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	for _, turn := range history {
		if turn.Role == session.RoleModel {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    messages,
		Temperature: openai.Float(float64(temperature)),
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.WrapKind(errors.KindGeneration, err, "failed to send message to OpenAI")
	}
	if len(resp.Choices) == 0 {
		return "", errors.WithKind(errors.KindGeneration, "received an empty response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}
