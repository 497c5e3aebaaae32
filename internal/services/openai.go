package services

import (
	"context"
	"errors"
	"fmt"

	openaiapi "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator talks to any OpenAI-compatible chat completion endpoint.
type OpenAIGenerator struct {
	api   *openaiapi.Client
	model string
}

func NewOpenAIGenerator(token, model, baseURL string) *OpenAIGenerator {
	cfg := openaiapi.DefaultConfig(token)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{
		api:   openaiapi.NewClientWithConfig(cfg),
		model: model,
	}
}

// GenerateText sends the prompt as one user message.
func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.api.CreateChatCompletion(ctx, openaiapi.ChatCompletionRequest{
		Model:  g.model,
		Stream: false,
		Messages: []openaiapi.ChatCompletionMessage{
			{Role: openaiapi.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned empty response")
	}

	return resp.Choices[0].Message.Content, nil
}
