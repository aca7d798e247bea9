package domain

import (
	"encoding/json"
	"time"
)

// QuizSession is an append-only scoring record.
type QuizSession struct {
	ID        string
	Score     int
	Total     int
	PerTopic  json.RawMessage // 주제별 집계, 내용은 해석하지 않음
	CreatedAt time.Time
}

// NewQuizSession creates a new QuizSession instance
func NewQuizSession(score, total int, perTopic json.RawMessage, now time.Time) *QuizSession {
	if len(perTopic) == 0 {
		perTopic = json.RawMessage(`{}`)
	}
	return &QuizSession{
		Score:     score,
		Total:     total,
		PerTopic:  perTopic,
		CreatedAt: now,
	}
}
