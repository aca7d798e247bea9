package dto

import (
	"encoding/json"
	"time"

	"study-buddy/internal/domain"
)

// TimeLayout is the ISO-8601 form used for every timestamp on the wire.
const TimeLayout = time.RFC3339Nano

// QuizResponse represents a stored quiz in the API response
// @Description Quiz with its generated question payload
type QuizResponse struct {
	ID        string         `json:"id"`
	Filename  string         `json:"filename"`
	Topic     *string        `json:"topic"`
	CreatedAt string         `json:"created_at"`
	QuizData  domain.Payload `json:"quiz_data" swaggertype:"object"`
}

// NewQuizResponse converts a domain quiz for the wire. A missing or null
// question list is sent as []; the stored payload itself is not touched.
func NewQuizResponse(q *domain.Quiz) QuizResponse {
	payload := q.Payload
	if questions, ok := payload["questions"]; !ok || questions == nil {
		payload = make(domain.Payload, len(q.Payload)+1)
		for k, v := range q.Payload {
			payload[k] = v
		}
		payload["questions"] = []any{}
	}
	var topic *string
	if q.Topic != nil && *q.Topic != "" {
		t := *q.Topic
		topic = &t
	}
	return QuizResponse{
		ID:        q.ID,
		Filename:  q.Filename,
		Topic:     topic,
		CreatedAt: q.CreatedAt.UTC().Format(TimeLayout),
		QuizData:  payload,
	}
}

// QuizEnvelope wraps a single quiz
type QuizEnvelope struct {
	Quiz QuizResponse `json:"quiz"`
}

// SyncResponse is the device sync feed, newest quiz first
type SyncResponse struct {
	Quizzes []QuizResponse `json:"quizzes"`
}

// NewSyncResponse converts quizzes in the order given.
func NewSyncResponse(quizzes []*domain.Quiz) SyncResponse {
	resp := SyncResponse{Quizzes: make([]QuizResponse, 0, len(quizzes))}
	for _, q := range quizzes {
		resp.Quizzes = append(resp.Quizzes, NewQuizResponse(q))
	}
	return resp
}

// UploadResponse is returned after a document was turned into a quiz
type UploadResponse struct {
	Message  string  `json:"message"`
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Topic    *string `json:"topic"`
}

// UpdateQuizRequest is a manual quiz edit. Absent fields are left alone; a
// null topic clears the label.
type UpdateQuizRequest struct {
	Topic    json.RawMessage `json:"topic,omitempty" swaggertype:"string"`
	QuizData json.RawMessage `json:"quiz_data,omitempty" swaggertype:"object"`
}

// TopicSummary represents one aggregated topic
type TopicSummary struct {
	Topic       string `json:"topic"`
	Quizzes     int    `json:"quizzes"`
	Questions   int    `json:"questions"`
	LastUpdated string `json:"last_updated"`
}

// TopicsResponse lists topics in first-seen (newest quiz first) order
type TopicsResponse struct {
	Topics []TopicSummary `json:"topics"`
}

// NewTopicsResponse converts the aggregated topic view.
func NewTopicsResponse(summaries []domain.TopicSummary) TopicsResponse {
	resp := TopicsResponse{Topics: make([]TopicSummary, 0, len(summaries))}
	for _, s := range summaries {
		resp.Topics = append(resp.Topics, TopicSummary{
			Topic:       s.Topic,
			Quizzes:     s.QuizCount,
			Questions:   s.QuestionCount,
			LastUpdated: s.LastUpdated.UTC().Format(TimeLayout),
		})
	}
	return resp
}

// CreateTopicRequest creates an empty placeholder quiz carrying the topic
type CreateTopicRequest struct {
	Topic string `json:"topic"`
}

// RenameTopicRequest relabels every quiz of old_topic
type RenameTopicRequest struct {
	OldTopic string `json:"old_topic"`
	NewTopic string `json:"new_topic"`
}

// RemoveTopicRequest detaches a topic from its quizzes
type RemoveTopicRequest struct {
	Topic string `json:"topic"`
}

// UpdatedResponse reports how many quizzes a topic operation touched
type UpdatedResponse struct {
	Updated int `json:"updated"`
}
