package repository

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"study-buddy/internal/util"

	"github.com/jmoiron/sqlx"
)

// SessionDatabaseAdapter implements domain.SessionRepository. Sessions are
// append-only; there is no update or delete.
type SessionDatabaseAdapter struct {
	db *sqlx.DB
}

func NewSessionDatabaseAdapter(db *sqlx.DB) *SessionDatabaseAdapter {
	return &SessionDatabaseAdapter{db: db}
}

// CreateSession implements domain.SessionRepository
func (a *SessionDatabaseAdapter) CreateSession(ctx context.Context, session *domain.QuizSession) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	modelSession := toModelSession(session)
	modelSession.ID = util.NewULIDAt(session.CreatedAt)

	db := GetExecutor(ctx, a.db)
	query := db.Rebind(`INSERT INTO quiz_sessions (id, score, total, per_topic, created_at) VALUES (?, ?, ?, ?, ?)`)
	if _, err := db.ExecContext(ctx, query,
		modelSession.ID,
		modelSession.Score,
		modelSession.Total,
		modelSession.PerTopic,
		modelSession.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to save quiz session: %w", err)
	}

	session.ID = modelSession.ID
	return nil
}

// ListSessions implements domain.SessionRepository
func (a *SessionDatabaseAdapter) ListSessions(ctx context.Context, order domain.SortOrder) ([]*domain.QuizSession, error) {
	var rows []models.QuizSession
	db := GetExecutor(ctx, a.db)
	query := `SELECT id, score, total, per_topic, created_at FROM quiz_sessions ` + orderClause(order)
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quiz sessions: %w", err)
	}

	sessions := make([]*domain.QuizSession, 0, len(rows))
	for i := range rows {
		sessions = append(sessions, toDomainSession(&rows[i]))
	}
	return sessions, nil
}
