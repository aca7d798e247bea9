package domain

import "time"

// TopicSummary is one entry of the topic view aggregated over all quizzes.
type TopicSummary struct {
	Topic         string
	QuizCount     int
	QuestionCount int
	LastUpdated   time.Time
}
