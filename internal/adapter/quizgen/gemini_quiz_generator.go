package quizgen

import (
	"context"
	"errors"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// geminiModels is the subset of *genai.Models used by the generator.
type geminiModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiQuizGenerator implements domain.TextGenerator using the Gemini API.
type GeminiQuizGenerator struct {
	models    geminiModels
	modelName string
}

// NewGeminiQuizGenerator creates a new instance of GeminiQuizGenerator.
func NewGeminiQuizGenerator(ctx context.Context, apiKey string, modelName string) (*GeminiQuizGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("Gemini model name cannot be empty")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	logger.Get().Info("Initializing GeminiQuizGenerator", zap.String("model", modelName))
	return &GeminiQuizGenerator{models: client.Models, modelName: modelName}, nil
}

// Generate implements domain.TextGenerator
func (g *GeminiQuizGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(req.UserPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	return resp.Text(), nil
}

// Name implements domain.TextGenerator
func (g *GeminiQuizGenerator) Name() string {
	return "gemini/" + g.modelName
}

var _ domain.TextGenerator = (*GeminiQuizGenerator)(nil)
