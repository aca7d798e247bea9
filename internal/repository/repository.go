package repository

import (
	"context"
	"database/sql" // Required for sql.Result

	"study-buddy/internal/domain"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}

var (
	_ domain.QuizRepository     = (*QuizDatabaseAdapter)(nil)
	_ domain.SessionRepository  = (*SessionDatabaseAdapter)(nil)
	_ domain.SettingsRepository = (*SettingsDatabaseAdapter)(nil)
)
