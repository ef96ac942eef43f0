package llm

import (
	"context"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/napier-ai/napier/errors"
	"github.com/napier-ai/napier/session"
)

const anthropicMaxTokens = 4096

// AnthropicClient is a client for the Anthropic API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicClient creates a new AnthropicClient.
// It requires the ANTHROPIC_API_KEY environment variable to be set.
func NewAnthropicClient(ctx context.Context, modelName string) (*AnthropicClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.WithKind(errors.KindConfiguration, "ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)
	return &AnthropicClient{client: &client, model: modelName}, nil
}

// Generate sends the history plus the new prompt to Anthropic and returns
// the generated text.
func (a *AnthropicClient) Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error) {
	messages := convertTurnsToAnthropicMessages(history)
	messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    messages,
		Temperature: anthropic.Float(float64(temperature)),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: system},
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", errors.WrapKind(errors.KindGeneration, err, "failed to send message to Anthropic")
	}
	if len(resp.Content) == 0 {
		return "", errors.WithKind(errors.KindGeneration, "received an empty response from Anthropic")
	}

	var text string
	for _, content := range resp.Content {
		if block, ok := content.AsAny().(anthropic.TextBlock); ok {
			text += block.Text
		}
	}
	return text, nil
}

// convertTurnsToAnthropicMessages converts our internal turn format to
// Anthropic's message format.
func convertTurnsToAnthropicMessages(turns []session.Turn) []anthropic.MessageParam {
	var messages []anthropic.MessageParam
	for _, turn := range turns {
		if turn.Role == session.RoleModel {
			messages = append(messages, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleAssistant,
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{
						Text: turn.Content,
					},
				}},
			})
		} else {
			messages = append(messages, anthropic.NewUserMessage(
				anthropic.NewTextBlock(turn.Content),
			))
		}
	}
	return messages
}
