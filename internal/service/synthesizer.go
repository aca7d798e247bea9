package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"study-buddy/internal/cache"
	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// MaxSourceChars caps how much extracted text is sent to the model. Text
// beyond it is dropped, not summarized.
const MaxSourceChars = 15000

const quizSystemPrompt = `You are a helpful study assistant. Your goal is to generate a quiz based strictly on the provided text.

Output MUST be a valid JSON object with the following structure:
{
  "meta": {
    "topic": "A short 3-5 word title based on the text",
    "total_questions": 5
  },
  "questions": [
    {
      "id": 1,
      "type": "mcq",
      "question": "Question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_index": 0,
      "explanation": "Short explanation of why this is correct."
    },
    {
      "id": 2,
      "type": "flashcard",
      "front": "Concept or term",
      "back": "Definition or answer"
    }
  ]
}

Generate exactly 5 questions. Mix "mcq" and "flashcard" types.`

const userPromptPrefix = "Here are my notes:\n"

// QuizSynthesizer turns extracted document text into a quiz payload.
type QuizSynthesizer interface {
	Synthesize(ctx context.Context, text string) (domain.Payload, error)
}

// SynthesizerConfig holds the generation settings.
type SynthesizerConfig struct {
	Temperature float64
	Timeout     time.Duration
	CacheTTL    time.Duration
}

type quizSynthesizer struct {
	generator domain.TextGenerator
	validator domain.PayloadValidator
	cache     domain.Cache // optional
	cfg       SynthesizerConfig
	inflight  singleflight.Group
}

// NewQuizSynthesizer creates a synthesizer. cache may be nil.
func NewQuizSynthesizer(generator domain.TextGenerator, validator domain.PayloadValidator, cache domain.Cache, cfg SynthesizerConfig) QuizSynthesizer {
	if validator == nil {
		validator = LenientValidator{}
	}
	return &quizSynthesizer{
		generator: generator,
		validator: validator,
		cache:     cache,
		cfg:       cfg,
	}
}

// Synthesize implements QuizSynthesizer. Every failure after the cache
// lookup is a GENERATION_FAILURE; nothing is retried.
//
// With a cache, concurrent requests for the same text share one model call
// and run under the context of the first caller.
func (s *quizSynthesizer) Synthesize(ctx context.Context, text string) (domain.Payload, error) {
	truncated := TruncateText(text, MaxSourceChars)
	if s.cache == nil {
		return s.generate(ctx, truncated)
	}

	cacheKey := cache.GenerationKey(truncated, s.generator.Name())
	if payload := s.cachedPayload(ctx, cacheKey); payload != nil {
		logger.Get().Info("Serving quiz payload from generation cache", zap.String("generator", s.generator.Name()))
		return payload, nil
	}

	res, err, shared := s.inflight.Do(cacheKey, func() (interface{}, error) {
		payload, err := s.generate(ctx, truncated)
		if err != nil {
			return nil, err
		}
		s.storePayload(ctx, cacheKey, payload)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Joined an in-flight generation", zap.String("key", cacheKey))
	}

	// callers mutate the topic fields of their copy
	return res.(domain.Payload).Clone(), nil
}

// generate makes the single model call for truncated text and checks the reply.
func (s *quizSynthesizer) generate(ctx context.Context, truncated string) (domain.Payload, error) {
	l := logger.Get()

	genCtx := ctx
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := s.generator.Generate(genCtx, domain.GenerationRequest{
		SystemPrompt: quizSystemPrompt,
		UserPrompt:   userPromptPrefix + truncated,
		Temperature:  s.cfg.Temperature,
		JSONMode:     true,
	})
	if err != nil {
		if errors.Is(genCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("generation timed out after %s: %w", s.cfg.Timeout, err)
		}
		l.Error("Quiz generation call failed",
			zap.String("generator", s.generator.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, domain.NewGenerationFailureError(err)
	}

	cleaned := CleanModelResponse(raw)
	payload, err := domain.DecodePayload([]byte(cleaned))
	if err != nil {
		l.Warn("Generator returned an unparseable payload",
			zap.String("generator", s.generator.Name()),
			zap.Int("response_length", len(raw)),
			zap.Error(err))
		return nil, domain.NewGenerationFailureError(err)
	}
	if err := s.validator.Validate(payload); err != nil {
		l.Warn("Generator payload failed validation", zap.String("generator", s.generator.Name()), zap.Error(err))
		return nil, domain.NewGenerationFailureError(err)
	}

	l.Info("Quiz payload generated",
		zap.String("generator", s.generator.Name()),
		zap.Int("input_chars", utf8.RuneCountInString(truncated)),
		zap.Int("questions", payload.QuestionCount()),
		zap.Duration("elapsed", time.Since(start)))
	return payload, nil
}

// cachedPayload returns nil on a miss or on any cache problem.
func (s *quizSynthesizer) cachedPayload(ctx context.Context, key string) domain.Payload {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Generation cache lookup failed, calling the model", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	payload, err := domain.DecodePayload([]byte(raw))
	if err == nil {
		err = s.validator.Validate(payload)
	}
	if err != nil {
		logger.Get().Warn("Ignoring invalid cached payload", zap.String("key", key), zap.Error(err))
		return nil
	}
	return payload
}

func (s *quizSynthesizer) storePayload(ctx context.Context, key string, payload domain.Payload) {
	data, err := payload.Encode()
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(data), s.cfg.CacheTTL); err != nil {
		logger.Get().Warn("Failed to store payload in generation cache", zap.String("key", key), zap.Error(err))
	}
}

// TruncateText returns at most limit characters of text. It never splits a
// multi-byte character.
func TruncateText(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == limit {
			return text[:i]
		}
		count++
	}
	return text
}

// CleanModelResponse strips reasoning blocks and Markdown code fences that
// some models wrap around their JSON.
func CleanModelResponse(raw string) string {
	cleaned := strings.TrimSpace(raw)
	for {
		start := strings.Index(cleaned, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(cleaned[start:], "</think>")
		if end == -1 {
			break
		}
		cleaned = cleaned[:start] + cleaned[start+end+len("</think>"):]
	}
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
