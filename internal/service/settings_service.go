package service

import (
	"context"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

// SettingsService reads and writes the settings singleton.
type SettingsService interface {
	GetSettings(ctx context.Context) (*domain.AppSettings, error)
	UpdateTheme(ctx context.Context, theme string) (*domain.AppSettings, error)
}

type settingsService struct {
	repo domain.SettingsRepository
}

// NewSettingsService creates a new instance of settingsService
func NewSettingsService(repo domain.SettingsRepository) SettingsService {
	return &settingsService{repo: repo}
}

// GetSettings returns the settings row, creating it with the default theme
// on first use.
func (s *settingsService) GetSettings(ctx context.Context) (*domain.AppSettings, error) {
	settings, err := s.repo.GetOrCreateSettings(ctx, domain.DefaultTheme)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to load settings")
	}
	return settings, nil
}

func (s *settingsService) UpdateTheme(ctx context.Context, theme string) (*domain.AppSettings, error) {
	parsed, ok := domain.ParseTheme(theme)
	if !ok {
		return nil, domain.NewValidationError("theme must be one of game, minimal-dark, minimal-light").
			WithContext("field", "theme")
	}
	settings, err := s.repo.SaveTheme(ctx, parsed)
	if err != nil {
		return nil, wrapStoreError(err, "Failed to save settings")
	}
	logger.Get().Info("Theme updated", zap.String("theme", string(parsed)))
	return settings, nil
}
