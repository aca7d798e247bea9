package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/repository/models"
	"study-buddy/internal/util"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	quizColumns = `id, filename, topic, quiz_data, created_at, updated_at, version`

	// maxUpdateAttempts bounds optimistic retries when another writer bumps
	// the row version between our read and write.
	maxUpdateAttempts = 5
)

var errVersionConflict = errors.New("quiz row changed concurrently")

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db  *sqlx.DB
	txm *TransactionManager
	now func() time.Time
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) *QuizDatabaseAdapter {
	return &QuizDatabaseAdapter{
		db:  db,
		txm: NewTransactionManager(db),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// CreateQuiz implements domain.QuizRepository. It assigns the ID and, when
// unset, the creation time.
func (a *QuizDatabaseAdapter) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return fmt.Errorf("cannot save nil quiz")
	}
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = a.now()
	}
	if quiz.UpdatedAt.IsZero() {
		quiz.UpdatedAt = quiz.CreatedAt
	}

	modelQuiz, err := toModelQuiz(quiz)
	if err != nil {
		return err
	}
	modelQuiz.ID = util.NewULIDAt(quiz.CreatedAt)
	modelQuiz.Version = 1

	db := GetExecutor(ctx, a.db)
	query := db.Rebind(`INSERT INTO quizzes (` + quizColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err = db.ExecContext(ctx, query,
		modelQuiz.ID,
		modelQuiz.Filename,
		modelQuiz.Topic,
		modelQuiz.QuizData,
		modelQuiz.CreatedAt,
		modelQuiz.UpdatedAt,
		modelQuiz.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz: %w", err)
	}

	quiz.ID = modelQuiz.ID
	quiz.Version = modelQuiz.Version
	return nil
}

// GetQuizByID implements domain.QuizRepository
func (a *QuizDatabaseAdapter) GetQuizByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var modelQuiz models.Quiz
	db := GetExecutor(ctx, a.db)
	query := db.Rebind(`SELECT ` + quizColumns + ` FROM quizzes WHERE id = ?`)
	if err := db.GetContext(ctx, &modelQuiz, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz by ID %s: %w", id, err)
	}
	return toDomainQuiz(&modelQuiz)
}

// ListQuizzes implements domain.QuizRepository
func (a *QuizDatabaseAdapter) ListQuizzes(ctx context.Context, order domain.SortOrder) ([]*domain.Quiz, error) {
	var rows []models.Quiz
	db := GetExecutor(ctx, a.db)
	query := `SELECT ` + quizColumns + ` FROM quizzes ` + orderClause(order)
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	return toDomainQuizzes(rows)
}

// ListTopicCandidates implements domain.QuizRepository. Rows with an empty
// or NULL topic column are included because their effective topic comes
// from the payload.
func (a *QuizDatabaseAdapter) ListTopicCandidates(ctx context.Context, topic string) ([]*domain.Quiz, error) {
	var rows []models.Quiz
	db := GetExecutor(ctx, a.db)
	query := db.Rebind(`SELECT ` + quizColumns + ` FROM quizzes
	WHERE topic = ? OR topic IS NULL OR topic = ''
	` + orderClause(domain.OldestFirst))
	if err := db.SelectContext(ctx, &rows, query, topic); err != nil {
		return nil, fmt.Errorf("failed to list quizzes for topic %q: %w", topic, err)
	}
	return toDomainQuizzes(rows)
}

// UpdateQuiz implements domain.QuizRepository. The read and the write run in
// one transaction and the write is conditional on the version read, so a
// concurrent writer can never be silently overwritten. On conflict the
// mutation is replayed against the fresh row.
func (a *QuizDatabaseAdapter) UpdateQuiz(ctx context.Context, id string, fn domain.QuizMutator) (*domain.Quiz, bool, error) {
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		quiz, changed, err := a.updateOnce(ctx, id, fn)
		if errors.Is(err, errVersionConflict) {
			logger.Get().Debug("Retrying quiz update after version conflict",
				zap.String("quiz_id", id), zap.Int("attempt", attempt))
			continue
		}
		return quiz, changed, err
	}
	return nil, false, fmt.Errorf("failed to update quiz %s: %w", id, errVersionConflict)
}

func (a *QuizDatabaseAdapter) updateOnce(ctx context.Context, id string, fn domain.QuizMutator) (*domain.Quiz, bool, error) {
	var (
		result  *domain.Quiz
		changed bool
	)
	err := a.txm.WithTransaction(ctx, func(txCtx context.Context) error {
		quiz, err := a.GetQuizByID(txCtx, id)
		if err != nil {
			return err
		}
		if quiz == nil {
			return domain.NewQuizNotFoundError(id)
		}

		changed, err = fn(quiz)
		if err != nil {
			return err
		}
		if !changed {
			result = quiz
			return nil
		}

		quiz.UpdatedAt = a.now()
		modelQuiz, err := toModelQuiz(quiz)
		if err != nil {
			return err
		}

		db := GetExecutor(txCtx, a.db)
		query := db.Rebind(`UPDATE quizzes SET
		topic = ?,
		quiz_data = ?,
		updated_at = ?,
		version = version + 1
	WHERE id = ? AND version = ?`)
		res, err := db.ExecContext(txCtx, query,
			modelQuiz.Topic,
			modelQuiz.QuizData,
			modelQuiz.UpdatedAt,
			modelQuiz.ID,
			modelQuiz.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update quiz: %w", err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return errVersionConflict
		}

		quiz.Version++
		result = quiz
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}
