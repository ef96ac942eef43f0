package llm

import (
	"context"
	"os"

	"github.com/google/generative-ai-go/genai"
	"github.com/napier-ai/napier/errors"
	"github.com/napier-ai/napier/session"
	"google.golang.org/api/option"
)

// GeminiClient is a client for the Google Gemini API. It is the default
// backend.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a new GeminiClient.
// It requires the GEMINI_API_KEY environment variable to be set.
func NewGeminiClient(ctx context.Context, modelName string) (*GeminiClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.WithKind(errors.KindConfiguration, "GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create genai client")
	}

	return &GeminiClient{client: client, model: modelName}, nil
}

// Generate sends the history plus the new prompt to Gemini and returns the
// generated text. The system instructions travel as a leading text part of
// the new message, not as persistent chat state.
func (g *GeminiClient) Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(temperature)

	chat := model.StartChat()
	chat.History = convertTurnsToGeminiContent(history)

	var parts []genai.Part
	if system != "" {
		parts = append(parts, genai.Text(system))
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return "", errors.WrapKind(errors.KindGeneration, err, "failed to send message to Gemini")
	}

	return extractGeminiText(resp)
}

// convertTurnsToGeminiContent converts our internal turn format to Gemini's.
func convertTurnsToGeminiContent(turns []session.Turn) []*genai.Content {
	var contents []*genai.Content
	for _, turn := range turns {
		role := "user"
		if turn.Role == session.RoleModel {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.WithKind(errors.KindGeneration, "received an empty response from Gemini")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
