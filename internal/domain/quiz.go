package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// QuestionType tags a question item inside a quiz payload.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeFlashcard QuestionType = "flashcard"
)

const (
	payloadMetaKey      = "meta"
	payloadQuestionsKey = "questions"
	metaTopicKey        = "topic"
	metaTotalKey        = "total_questions"
)

// Quiz represents one generated (or manually created) quiz
type Quiz struct {
	ID        string
	Filename  string
	Topic     *string // 비어 있으면 Payload 의 meta.topic 으로 대체
	Payload   Payload
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// Payload is the quiz document stored with every Quiz, kept as the decoded
// JSON object. Only meta.topic and the question list are interpreted; every
// other field, including its type, is carried through as received.
type Payload map[string]any

// Question is the typed form of a single mcq or flashcard item. Fields that
// do not apply to the item's type are left empty.
type Question struct {
	ID           json.RawMessage `json:"id,omitempty"`
	Type         QuestionType    `json:"type"`
	Question     string          `json:"question,omitempty"`
	Options      []string        `json:"options,omitempty"`
	CorrectIndex *int            `json:"correct_index,omitempty"`
	Explanation  string          `json:"explanation,omitempty"`
	Front        string          `json:"front,omitempty"`
	Back         string          `json:"back,omitempty"`
}

// NewQuiz creates a new Quiz instance
func NewQuiz(filename string, topic string, payload Payload, now time.Time) *Quiz {
	q := &Quiz{
		Filename:  filename,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if topic != "" {
		q.SetTopic(topic)
	}
	return q
}

// NewPlaceholderPayload returns the empty payload used to make a topic exist
// without any questions.
func NewPlaceholderPayload(topic string) Payload {
	return Payload{
		payloadMetaKey:      map[string]any{metaTopicKey: topic, metaTotalKey: 0},
		payloadQuestionsKey: []any{},
	}
}

// EffectiveTopic resolves the quiz topic: the denormalized field when set,
// otherwise the topic embedded in the payload. Empty means unlabeled.
func (q *Quiz) EffectiveTopic() string {
	if q.Topic != nil && *q.Topic != "" {
		return *q.Topic
	}
	return q.Payload.MetaTopic()
}

// SetTopic labels the quiz, writing both topic representations.
func (q *Quiz) SetTopic(topic string) {
	denorm := topic
	q.Topic = &denorm
	if q.Payload == nil {
		q.Payload = Payload{}
	}
	q.Payload.SetMetaTopic(topic)
}

// ClearTopic detaches the topic label. A meta.topic key that exists is set
// to null; a missing key or meta object stays missing.
func (q *Quiz) ClearTopic() {
	q.Topic = nil
	q.Payload.ClearMetaTopic()
}

// QuestionCount returns the number of question items in the payload.
func (q *Quiz) QuestionCount() int {
	return q.Payload.QuestionCount()
}

// DecodePayload parses raw JSON into a Payload. The document must be a JSON
// object; arrays, scalars and null are rejected. Numbers keep their literal
// form.
func DecodePayload(data []byte) (Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("payload is empty")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("payload is not a JSON object")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode payload: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("failed to decode payload: unexpected data after the object")
	}
	return p, nil
}

// Encode serializes the payload for storage.
func (p Payload) Encode() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]any(p))
}

// Meta returns the meta object, or nil when it is missing or not an object.
func (p Payload) Meta() map[string]any {
	meta, _ := p[payloadMetaKey].(map[string]any)
	return meta
}

// MetaTopic returns meta.topic when it is a string.
func (p Payload) MetaTopic() string {
	topic, _ := p.Meta()[metaTopicKey].(string)
	return topic
}

// SetMetaTopic writes meta.topic, creating the meta object when needed.
func (p Payload) SetMetaTopic(topic string) {
	meta := p.Meta()
	if meta == nil {
		meta = map[string]any{}
		p[payloadMetaKey] = meta
	}
	meta[metaTopicKey] = topic
}

// ClearMetaTopic nulls meta.topic if the key is present.
func (p Payload) ClearMetaTopic() {
	meta := p.Meta()
	if _, ok := meta[metaTopicKey]; ok {
		meta[metaTopicKey] = nil
	}
}

// Questions returns the question list and whether it is a JSON array.
func (p Payload) Questions() ([]any, bool) {
	questions, ok := p[payloadQuestionsKey].([]any)
	return questions, ok
}

// QuestionCount returns the length of the question list, 0 when absent.
func (p Payload) QuestionCount() int {
	questions, _ := p.Questions()
	return len(questions)
}

// Clone returns a deep copy of p.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	return Payload(cloneJSONValue(map[string]any(p)).(map[string]any))
}

func cloneJSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = cloneJSONValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneJSONValue(e)
		}
		return out
	default:
		return val
	}
}

// Validate checks the top-level shape: meta must be an object and questions
// an array. The items themselves are not inspected.
func (p Payload) Validate() error {
	if p.Meta() == nil {
		return errors.New("payload meta must be an object")
	}
	if _, ok := p.Questions(); !ok {
		return errors.New("payload questions must be an array")
	}
	return nil
}

// DecodeQuestions converts the question list into typed items. It fails
// when an item does not fit the typed form, e.g. a string correct_index.
func (p Payload) DecodeQuestions() ([]Question, error) {
	items, ok := p.Questions()
	if !ok {
		return nil, errors.New("payload questions must be an array")
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	return questions, nil
}

// Validate checks a question item against its type-specific schema.
func (q *Question) Validate() error {
	switch q.Type {
	case QuestionTypeMCQ:
		if strings.TrimSpace(q.Question) == "" {
			return errors.New("mcq question text is required")
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("mcq needs at least 2 options, got %d", len(q.Options))
		}
		if q.CorrectIndex == nil {
			return errors.New("mcq correct_index is required")
		}
		if *q.CorrectIndex < 0 || *q.CorrectIndex >= len(q.Options) {
			return fmt.Errorf("mcq correct_index %d out of range [0,%d)", *q.CorrectIndex, len(q.Options))
		}
	case QuestionTypeFlashcard:
		if strings.TrimSpace(q.Front) == "" || strings.TrimSpace(q.Back) == "" {
			return errors.New("flashcard front and back are required")
		}
	default:
		return fmt.Errorf("unknown question type %q", q.Type)
	}
	return nil
}
