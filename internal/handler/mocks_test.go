package handler_test

import (
	"context"
	"encoding/json"
	"testing"

	"study-buddy/internal/domain"
	"study-buddy/internal/handler"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// --- Manual Mocks ---

// MockQuizService
type MockQuizService struct {
	UploadDocumentFunc func(ctx context.Context, filename string, document []byte) (*domain.Quiz, error)
	SyncQuizzesFunc    func(ctx context.Context) ([]*domain.Quiz, error)
	UpdateQuizFunc     func(ctx context.Context, id string, update service.QuizUpdate) (*domain.Quiz, error)
}

func (m *MockQuizService) UploadDocument(ctx context.Context, filename string, document []byte) (*domain.Quiz, error) {
	if m.UploadDocumentFunc != nil {
		return m.UploadDocumentFunc(ctx, filename, document)
	}
	panic("MockQuizService.UploadDocumentFunc not implemented")
}
func (m *MockQuizService) SyncQuizzes(ctx context.Context) ([]*domain.Quiz, error) {
	if m.SyncQuizzesFunc != nil {
		return m.SyncQuizzesFunc(ctx)
	}
	panic("MockQuizService.SyncQuizzesFunc not implemented")
}
func (m *MockQuizService) UpdateQuiz(ctx context.Context, id string, update service.QuizUpdate) (*domain.Quiz, error) {
	if m.UpdateQuizFunc != nil {
		return m.UpdateQuizFunc(ctx, id, update)
	}
	panic("MockQuizService.UpdateQuizFunc not implemented")
}

// MockTopicService
type MockTopicService struct {
	ListTopicsFunc  func(ctx context.Context) ([]domain.TopicSummary, error)
	CreateTopicFunc func(ctx context.Context, topic string) (*domain.Quiz, error)
	RenameTopicFunc func(ctx context.Context, oldTopic, newTopic string) (int, error)
	RemoveTopicFunc func(ctx context.Context, topic string) (int, error)
}

func (m *MockTopicService) ListTopics(ctx context.Context) ([]domain.TopicSummary, error) {
	if m.ListTopicsFunc != nil {
		return m.ListTopicsFunc(ctx)
	}
	panic("MockTopicService.ListTopicsFunc not implemented")
}
func (m *MockTopicService) CreateTopic(ctx context.Context, topic string) (*domain.Quiz, error) {
	if m.CreateTopicFunc != nil {
		return m.CreateTopicFunc(ctx, topic)
	}
	panic("MockTopicService.CreateTopicFunc not implemented")
}
func (m *MockTopicService) RenameTopic(ctx context.Context, oldTopic, newTopic string) (int, error) {
	if m.RenameTopicFunc != nil {
		return m.RenameTopicFunc(ctx, oldTopic, newTopic)
	}
	panic("MockTopicService.RenameTopicFunc not implemented")
}
func (m *MockTopicService) RemoveTopic(ctx context.Context, topic string) (int, error) {
	if m.RemoveTopicFunc != nil {
		return m.RemoveTopicFunc(ctx, topic)
	}
	panic("MockTopicService.RemoveTopicFunc not implemented")
}

// MockProgressService
type MockProgressService struct {
	RecordSessionFunc func(ctx context.Context, score, total int, perTopic json.RawMessage) (*domain.QuizSession, error)
	ListSessionsFunc  func(ctx context.Context) ([]*domain.QuizSession, error)
}

func (m *MockProgressService) RecordSession(ctx context.Context, score, total int, perTopic json.RawMessage) (*domain.QuizSession, error) {
	if m.RecordSessionFunc != nil {
		return m.RecordSessionFunc(ctx, score, total, perTopic)
	}
	panic("MockProgressService.RecordSessionFunc not implemented")
}
func (m *MockProgressService) ListSessions(ctx context.Context) ([]*domain.QuizSession, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	panic("MockProgressService.ListSessionsFunc not implemented")
}

// MockSettingsService
type MockSettingsService struct {
	GetSettingsFunc func(ctx context.Context) (*domain.AppSettings, error)
	UpdateThemeFunc func(ctx context.Context, theme string) (*domain.AppSettings, error)
}

func (m *MockSettingsService) GetSettings(ctx context.Context) (*domain.AppSettings, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(ctx)
	}
	panic("MockSettingsService.GetSettingsFunc not implemented")
}
func (m *MockSettingsService) UpdateTheme(ctx context.Context, theme string) (*domain.AppSettings, error) {
	if m.UpdateThemeFunc != nil {
		return m.UpdateThemeFunc(ctx, theme)
	}
	panic("MockSettingsService.UpdateThemeFunc not implemented")
}

type testServices struct {
	quiz     *MockQuizService
	topic    *MockTopicService
	progress *MockProgressService
	settings *MockSettingsService
}

// newTestApp wires every handler to fresh mocks behind the production
// routes and error handler.
func newTestApp(t *testing.T) (*fiber.App, *testServices) {
	t.Helper()
	svcs := &testServices{
		quiz:     &MockQuizService{},
		topic:    &MockTopicService{},
		progress: &MockProgressService{},
		settings: &MockSettingsService{},
	}
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	handler.RegisterRoutes(app, handler.Handlers{
		Quiz:     handler.NewQuizHandler(svcs.quiz),
		Topic:    handler.NewTopicHandler(svcs.topic),
		Progress: handler.NewProgressHandler(svcs.progress),
		Settings: handler.NewSettingsHandler(svcs.settings),
	})
	return app, svcs
}
