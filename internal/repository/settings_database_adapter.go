package repository

import (
	"context"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// SettingsDatabaseAdapter implements domain.SettingsRepository. The table
// holds at most the one row with id domain.SettingsID.
type SettingsDatabaseAdapter struct {
	db *sqlx.DB
}

func NewSettingsDatabaseAdapter(db *sqlx.DB) *SettingsDatabaseAdapter {
	return &SettingsDatabaseAdapter{db: db}
}

// GetOrCreateSettings implements domain.SettingsRepository. Concurrent first
// reads race on the insert; the primary key lets exactly one of them win.
func (a *SettingsDatabaseAdapter) GetOrCreateSettings(ctx context.Context, defaultTheme domain.Theme) (*domain.AppSettings, error) {
	db := GetExecutor(ctx, a.db)
	insert := db.Rebind(`INSERT INTO app_settings (id, theme) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`)
	if _, err := db.ExecContext(ctx, insert, domain.SettingsID, string(defaultTheme)); err != nil {
		return nil, fmt.Errorf("failed to initialize settings: %w", err)
	}
	return a.get(ctx, db)
}

// SaveTheme implements domain.SettingsRepository
func (a *SettingsDatabaseAdapter) SaveTheme(ctx context.Context, theme domain.Theme) (*domain.AppSettings, error) {
	db := GetExecutor(ctx, a.db)
	upsert := db.Rebind(`INSERT INTO app_settings (id, theme) VALUES (?, ?)
	ON CONFLICT (id) DO UPDATE SET theme = excluded.theme`)
	if _, err := db.ExecContext(ctx, upsert, domain.SettingsID, string(theme)); err != nil {
		return nil, fmt.Errorf("failed to save theme: %w", err)
	}
	return a.get(ctx, db)
}

func (a *SettingsDatabaseAdapter) get(ctx context.Context, db DBTX) (*domain.AppSettings, error) {
	var row models.AppSettings
	query := db.Rebind(`SELECT id, theme FROM app_settings WHERE id = ?`)
	if err := db.GetContext(ctx, &row, query, domain.SettingsID); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return toDomainSettings(&row), nil
}
