package repository

import (
	"encoding/json"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"study-buddy/internal/util"
)

func toModelQuiz(quiz *domain.Quiz) (*models.Quiz, error) {
	if quiz == nil {
		return nil, nil
	}
	data, err := quiz.Payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz payload: %w", err)
	}
	return &models.Quiz{
		ID:        quiz.ID,
		Filename:  quiz.Filename,
		Topic:     util.StringPtrToNullString(quiz.Topic),
		QuizData:  string(data),
		CreatedAt: quiz.CreatedAt.UnixNano(),
		UpdatedAt: quiz.UpdatedAt.UnixNano(),
		Version:   quiz.Version,
	}, nil
}

func toDomainQuiz(m *models.Quiz) (*domain.Quiz, error) {
	if m == nil {
		return nil, nil
	}
	payload, err := domain.DecodePayload([]byte(m.QuizData))
	if err != nil {
		return nil, fmt.Errorf("stored quiz_data of quiz %s is invalid: %w", m.ID, err)
	}
	return &domain.Quiz{
		ID:        m.ID,
		Filename:  m.Filename,
		Topic:     util.NullStringToPtr(m.Topic),
		Payload:   payload,
		CreatedAt: util.UnixNanoToTime(m.CreatedAt),
		UpdatedAt: util.UnixNanoToTime(m.UpdatedAt),
		Version:   m.Version,
	}, nil
}

func toDomainQuizzes(rows []models.Quiz) ([]*domain.Quiz, error) {
	quizzes := make([]*domain.Quiz, 0, len(rows))
	for i := range rows {
		q, err := toDomainQuiz(&rows[i])
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, nil
}

func toModelSession(s *domain.QuizSession) *models.QuizSession {
	if s == nil {
		return nil
	}
	return &models.QuizSession{
		ID:        s.ID,
		Score:     s.Score,
		Total:     s.Total,
		PerTopic:  models.JSONObject(s.PerTopic),
		CreatedAt: s.CreatedAt.UnixNano(),
	}
}

func toDomainSession(m *models.QuizSession) *domain.QuizSession {
	if m == nil {
		return nil
	}
	return &domain.QuizSession{
		ID:        m.ID,
		Score:     m.Score,
		Total:     m.Total,
		PerTopic:  json.RawMessage(m.PerTopic),
		CreatedAt: util.UnixNanoToTime(m.CreatedAt),
	}
}

func toDomainSettings(m *models.AppSettings) *domain.AppSettings {
	if m == nil {
		return nil
	}
	return &domain.AppSettings{ID: m.ID, Theme: domain.Theme(m.Theme)}
}

func orderClause(order domain.SortOrder) string {
	if order == domain.NewestFirst {
		return "ORDER BY created_at DESC, id DESC"
	}
	return "ORDER BY created_at ASC, id ASC"
}
