package quizgen

import (
	"context"
	"fmt"

	"study-buddy/internal/config"
	"study-buddy/internal/domain"
)

// New builds the TextGenerator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig) (domain.TextGenerator, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIQuizGenerator(cfg.APIKey, cfg.Model, cfg.ServerURL)
	case "ollama":
		return NewOllamaQuizGenerator(cfg.ServerURL, cfg.Model, cfg.Timeout)
	case "gemini":
		return NewGeminiQuizGenerator(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
