package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

// QuizUpdate is a manual edit of one quiz. Nil fields are left unchanged.
type QuizUpdate struct {
	Topic    *string
	QuizData json.RawMessage
}

// QuizService sequences document upload into a stored quiz and serves the
// quiz feed.
type QuizService interface {
	UploadDocument(ctx context.Context, filename string, document []byte) (*domain.Quiz, error)
	SyncQuizzes(ctx context.Context) ([]*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, id string, update QuizUpdate) (*domain.Quiz, error)
}

type quizService struct {
	repo        domain.QuizRepository
	extractor   domain.TextExtractor
	synthesizer QuizSynthesizer
	validator   domain.PayloadValidator
	now         func() time.Time
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	repo domain.QuizRepository,
	extractor domain.TextExtractor,
	synthesizer QuizSynthesizer,
	validator domain.PayloadValidator,
) QuizService {
	if validator == nil {
		validator = LenientValidator{}
	}
	return &quizService{
		repo:        repo,
		extractor:   extractor,
		synthesizer: synthesizer,
		validator:   validator,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// UploadDocument extracts, synthesizes and stores one quiz. When the model
// offers no topic the filename is used.
func (s *quizService) UploadDocument(ctx context.Context, filename string, document []byte) (*domain.Quiz, error) {
	l := logger.Get()
	if isBlank(filename) {
		return nil, domain.NewValidationError("No selected file")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, domain.NewValidationError("Invalid file type. Please upload a PDF.").WithContext("filename", filename)
	}

	text, err := s.extractor.Extract(ctx, document)
	if err != nil {
		l.Warn("Text extraction failed", zap.String("filename", filename), zap.Error(err))
		return nil, wrapStoreError(err, "Failed to extract text")
	}

	payload, err := s.synthesizer.Synthesize(ctx, text)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to generate quiz")
	}

	topic := payload.MetaTopic()
	if topic == "" {
		topic = filename
	}

	quiz := domain.NewQuiz(filename, topic, payload, s.now())
	if err := s.repo.CreateQuiz(ctx, quiz); err != nil {
		return nil, wrapStoreError(err, "Failed to save quiz")
	}

	l.Info("Quiz generated and saved",
		zap.String("quiz_id", quiz.ID),
		zap.String("filename", filename),
		zap.String("topic", topic),
		zap.Int("questions", quiz.QuestionCount()))
	return quiz, nil
}

// SyncQuizzes returns every quiz, newest first.
func (s *quizService) SyncQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	quizzes, err := s.repo.ListQuizzes(ctx, domain.NewestFirst)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to list quizzes")
	}
	return quizzes, nil
}

// UpdateQuiz applies a manual edit. An empty topic clears the label.
// Replacing quiz_data alone re-applies the existing label so both topic
// fields keep agreeing.
func (s *quizService) UpdateQuiz(ctx context.Context, id string, update QuizUpdate) (*domain.Quiz, error) {
	if update.Topic == nil && update.QuizData == nil {
		return nil, domain.NewValidationError("Nothing to update: provide topic or quiz_data")
	}

	var replacement domain.Payload
	if update.QuizData != nil {
		p, err := domain.DecodePayload(update.QuizData)
		if err == nil {
			err = s.validator.Validate(p)
		}
		if err != nil {
			return nil, domain.NewError(domain.CodeValidation, "Invalid quiz_data", err).WithContext("field", "quiz_data")
		}
		replacement = p
	}

	quiz, _, err := s.repo.UpdateQuiz(ctx, id, func(q *domain.Quiz) (bool, error) {
		// a retried attempt must start from the unmodified replacement
		if replacement != nil {
			q.Payload = replacement.Clone()
		}
		switch {
		case update.Topic != nil && *update.Topic == "":
			q.ClearTopic()
		case update.Topic != nil:
			q.SetTopic(*update.Topic)
		case q.Topic != nil && *q.Topic != "":
			q.SetTopic(*q.Topic)
		}
		return true, nil
	})
	if err != nil {
		return nil, wrapStoreError(err, "Failed to update quiz")
	}

	logger.Get().Info("Quiz updated", zap.String("quiz_id", id))
	return quiz, nil
}
