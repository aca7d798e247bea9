package dto

import (
	"encoding/json"

	"study-buddy/internal/domain"
)

// ProgressRequest records one finished quiz session
type ProgressRequest struct {
	Score    *int            `json:"score"`
	Total    *int            `json:"total"`
	PerTopic json.RawMessage `json:"per_topic,omitempty" swaggertype:"object"`
}

// SessionResponse represents a quiz session in the API response
type SessionResponse struct {
	ID        string          `json:"id"`
	Score     int             `json:"score"`
	Total     int             `json:"total"`
	PerTopic  json.RawMessage `json:"per_topic" swaggertype:"object"`
	CreatedAt string          `json:"created_at"`
}

func NewSessionResponse(s *domain.QuizSession) SessionResponse {
	perTopic := s.PerTopic
	if len(perTopic) == 0 {
		perTopic = json.RawMessage(`{}`)
	}
	return SessionResponse{
		ID:        s.ID,
		Score:     s.Score,
		Total:     s.Total,
		PerTopic:  perTopic,
		CreatedAt: s.CreatedAt.UTC().Format(TimeLayout),
	}
}

type SessionEnvelope struct {
	Session SessionResponse `json:"session"`
}

// SessionsResponse lists sessions oldest first
type SessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

func NewSessionsResponse(sessions []*domain.QuizSession) SessionsResponse {
	resp := SessionsResponse{Sessions: make([]SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		resp.Sessions = append(resp.Sessions, NewSessionResponse(s))
	}
	return resp
}

// SettingsResponse represents the settings singleton
type SettingsResponse struct {
	ID    int64  `json:"id"`
	Theme string `json:"theme"`
}

type SettingsEnvelope struct {
	Settings SettingsResponse `json:"settings"`
}

func NewSettingsEnvelope(s *domain.AppSettings) SettingsEnvelope {
	return SettingsEnvelope{Settings: SettingsResponse{ID: s.ID, Theme: string(s.Theme)}}
}

// UpdateSettingsRequest changes the UI theme
type UpdateSettingsRequest struct {
	Theme string `json:"theme"`
}
