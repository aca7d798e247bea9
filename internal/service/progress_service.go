package service

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

// ProgressService records quiz sessions. Sessions are never edited.
type ProgressService interface {
	RecordSession(ctx context.Context, score, total int, perTopic json.RawMessage) (*domain.QuizSession, error)
	ListSessions(ctx context.Context) ([]*domain.QuizSession, error)
}

type progressService struct {
	repo domain.SessionRepository
	now  func() time.Time
}

// NewProgressService creates a new instance of progressService
func NewProgressService(repo domain.SessionRepository) ProgressService {
	return &progressService{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// RecordSession stores one scoring record. total below score is accepted.
func (s *progressService) RecordSession(ctx context.Context, score, total int, perTopic json.RawMessage) (*domain.QuizSession, error) {
	if score < 0 {
		return nil, domain.NewValidationError("score must not be negative").WithContext("field", "score")
	}
	if total < 0 {
		return nil, domain.NewValidationError("total must not be negative").WithContext("field", "total")
	}
	trimmed := bytes.TrimSpace(perTopic)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = nil
	} else if trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, domain.NewValidationError("per_topic must be a JSON object").WithContext("field", "per_topic")
	}

	session := domain.NewQuizSession(score, total, json.RawMessage(trimmed), s.now())
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, wrapStoreError(err, "Failed to save quiz session")
	}

	logger.Get().Info("Quiz session recorded",
		zap.String("session_id", session.ID),
		zap.Int("score", score),
		zap.Int("total", total))
	return session, nil
}

// ListSessions returns every session, oldest first.
func (s *progressService) ListSessions(ctx context.Context) ([]*domain.QuizSession, error) {
	sessions, err := s.repo.ListSessions(ctx, domain.OldestFirst)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to list quiz sessions")
	}
	return sessions, nil
}
