package llm

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/napier-ai/napier/errors"
	"github.com/napier-ai/napier/session"
)

// BedrockClient is a client for Anthropic models on AWS Bedrock.
type BedrockClient struct {
	client  *bedrockruntime.Client
	modelID string
}

// NewBedrockClient creates a new BedrockClient.
// It requires AWS credentials to be configured in the environment.
func NewBedrockClient(ctx context.Context, modelID string) (*BedrockClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.WrapKind(errors.KindConfiguration, err, "failed to load AWS config")
	}

	return &BedrockClient{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

// Generate sends the history plus the new prompt to the Anthropic model via
// AWS Bedrock and returns the generated text.
func (b *BedrockClient) Generate(ctx context.Context, history []session.Turn, system, prompt string, temperature float32) (string, error) {
	body, err := createBedrockRequest(history, system, prompt, temperature)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create Bedrock request")
	}

	resp, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", errors.WrapKind(errors.KindGeneration, err, "failed to invoke Bedrock model")
	}

	return parseBedrockResponse(resp.Body)
}

// createBedrockRequest builds the request body for Anthropic models on
// Bedrock from the history and the new prompt.
func createBedrockRequest(history []session.Turn, system, prompt string, temperature float32) ([]byte, error) {
	var messages []map[string]interface{}
	for _, turn := range history {
		role := "user"
		if turn.Role == session.RoleModel {
			role = "assistant"
		}
		messages = append(messages, map[string]interface{}{
			"role": role,
			"content": []map[string]interface{}{
				{"type": "text", "text": turn.Content},
			},
		})
	}
	messages = append(messages, map[string]interface{}{
		"role": "user",
		"content": []map[string]interface{}{
			{"type": "text", "text": prompt},
		},
	})

	request := map[string]interface{}{
		"anthropic_version": "bedrock-2023-05-31",
		"max_tokens":        anthropicMaxTokens,
		"temperature":       temperature,
		"messages":          messages,
	}
	if system != "" {
		request["system"] = system
	}

	return json.Marshal(request)
}

// parseBedrockResponse extracts the text content from a Bedrock response
// body.
func parseBedrockResponse(body []byte) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", errors.WrapKind(errors.KindGeneration, err, "failed to unmarshal Bedrock response")
	}

	if errMsg, ok := response["error"]; ok {
		return "", errors.WithKind(errors.KindGeneration, "Bedrock API error: %v", errMsg)
	}

	content, ok := response["content"].([]interface{})
	if !ok {
		return "", errors.WithKind(errors.KindGeneration, "unexpected content format in Bedrock response")
	}

	var text string
	for _, item := range content {
		itemMap, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if itemMap["type"] != "text" {
			continue
		}
		if t, ok := itemMap["text"].(string); ok {
			text += t
		}
	}
	return text, nil
}
