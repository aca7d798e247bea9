package domain

import "context"

// SortOrder selects creation-time ordering for list queries.
type SortOrder int

const (
	OldestFirst SortOrder = iota
	NewestFirst
)

// QuizMutator edits a quiz in place and reports whether it changed anything.
// Returning false skips the write.
type QuizMutator func(q *Quiz) (bool, error)

// QuizRepository persists Quiz entities.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	// GetQuizByID returns nil, nil when no quiz has the given id.
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	ListQuizzes(ctx context.Context, order SortOrder) ([]*Quiz, error)
	// ListTopicCandidates returns every quiz whose effective topic may equal
	// topic: rows labeled with it plus rows with no denormalized label.
	ListTopicCandidates(ctx context.Context, topic string) ([]*Quiz, error)
	// UpdateQuiz applies fn as an atomic read-modify-write on one row.
	UpdateQuiz(ctx context.Context, id string, fn QuizMutator) (*Quiz, bool, error)
}

// SessionRepository persists QuizSession records.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *QuizSession) error
	ListSessions(ctx context.Context, order SortOrder) ([]*QuizSession, error)
}

// SettingsRepository persists the AppSettings singleton.
type SettingsRepository interface {
	// GetOrCreateSettings returns the settings row, inserting it with
	// defaultTheme if it does not exist yet.
	GetOrCreateSettings(ctx context.Context, defaultTheme Theme) (*AppSettings, error)
	SaveTheme(ctx context.Context, theme Theme) (*AppSettings, error)
}
