package domain

import "context"

// GenerationRequest is a single prompt sent to a text generation model.
type GenerationRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	JSONMode     bool
}

// TextGenerator is the port to an external generative text model.
type TextGenerator interface {
	// Generate returns the model's raw text reply.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Name identifies provider and model, e.g. "openai/gpt-4o-mini".
	Name() string
}

// PayloadValidator checks a parsed generator reply before it is accepted.
type PayloadValidator interface {
	Validate(p Payload) error
}

// TextExtractor turns raw document bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, document []byte) (string, error)
}
