package quizgen

import (
	"context"
	"errors"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIQuizGenerator implements domain.TextGenerator with the chat completions API.
type OpenAIQuizGenerator struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIQuizGenerator creates a generator. baseURL may point at any
// OpenAI-compatible endpoint; empty uses api.openai.com.
func NewOpenAIQuizGenerator(apiKey, modelName, baseURL string) (*OpenAIQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("OpenAI model name cannot be empty")
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	logger.Get().Info("Initializing OpenAIQuizGenerator", zap.String("model", modelName))
	return &OpenAIQuizGenerator{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
	}, nil
}

// Generate implements domain.TextGenerator
func (g *OpenAIQuizGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	chatReq := openai.ChatCompletionRequest{
		Model:       g.modelName,
		Messages:    messages,
		Temperature: float32(req.Temperature),
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Name implements domain.TextGenerator
func (g *OpenAIQuizGenerator) Name() string {
	return "openai/" + g.modelName
}

var _ domain.TextGenerator = (*OpenAIQuizGenerator)(nil)
