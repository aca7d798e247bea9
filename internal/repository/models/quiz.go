package models

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// JSONObject stores an opaque JSON object in a TEXT column.
type JSONObject json.RawMessage

// Value implements the driver.Valuer interface
func (o JSONObject) Value() (driver.Value, error) {
	if len(o) == 0 {
		// nil 값은 빈 JSON 객체로 저장
		return "{}", nil
	}
	if !json.Valid(o) {
		return nil, errors.New("JSONObject Value: invalid JSON")
	}
	return string(o), nil
}

// Scan implements the sql.Scanner interface
func (o *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*o = JSONObject("{}")
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("JSONObject Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	raw = bytes.TrimSpace(raw)
	// 빈 문자열이나 "null" 은 빈 객체로 처리
	if len(raw) == 0 || string(raw) == "null" {
		*o = JSONObject("{}")
		return nil
	}
	if !json.Valid(raw) {
		return errors.New("JSONObject Scan: invalid JSON")
	}
	// driver may reuse the buffer
	*o = append(JSONObject(nil), raw...)
	return nil
}

// Quiz is the database row of the quizzes table.
type Quiz struct {
	ID        string         `db:"id"`
	Filename  string         `db:"filename"`
	Topic     sql.NullString `db:"topic"`
	QuizData  string         `db:"quiz_data"`  // JSON payload
	CreatedAt int64          `db:"created_at"` // unix nanoseconds
	UpdatedAt int64          `db:"updated_at"`
	Version   int64          `db:"version"`
}

// QuizSession is the database row of the quiz_sessions table.
type QuizSession struct {
	ID        string     `db:"id"`
	Score     int        `db:"score"`
	Total     int        `db:"total"`
	PerTopic  JSONObject `db:"per_topic"`
	CreatedAt int64      `db:"created_at"`
}

// AppSettings is the single row of the app_settings table.
type AppSettings struct {
	ID    int64  `db:"id"`
	Theme string `db:"theme"`
}
