package quizgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"go.uber.org/zap"
)

const defaultOllamaServerURL = "http://localhost:11434"

// OllamaQuizGenerator implements domain.TextGenerator over a local Ollama server.
type OllamaQuizGenerator struct {
	llm       llms.Model
	modelName string
}

// NewOllamaQuizGenerator creates a generator for the given Ollama server and model.
func NewOllamaQuizGenerator(serverURL, modelName string, timeout time.Duration) (*OllamaQuizGenerator, error) {
	if modelName == "" {
		return nil, fmt.Errorf("Ollama model name cannot be empty")
	}
	if serverURL == "" {
		serverURL = defaultOllamaServerURL
	}
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(modelName),
		ollama.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	logger.Get().Info("Initializing OllamaQuizGenerator",
		zap.String("server_url", serverURL),
		zap.String("model", modelName))
	return &OllamaQuizGenerator{llm: llm, modelName: modelName}, nil
}

// Generate implements domain.TextGenerator
func (g *OllamaQuizGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	content := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt))

	opts := []llms.CallOption{llms.WithTemperature(req.Temperature)}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}

	resp, err := g.llm.GenerateContent(ctx, content, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("LLM returned no choices")
	}
	return resp.Choices[0].Content, nil
}

// Name implements domain.TextGenerator
func (g *OllamaQuizGenerator) Name() string {
	return "ollama/" + g.modelName
}

var _ domain.TextGenerator = (*OllamaQuizGenerator)(nil)
