package handler

import (
	"study-buddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Quiz     *QuizHandler
	Topic    *TopicHandler
	Progress *ProgressHandler
	Settings *SettingsHandler
}

// RegisterRoutes mounts the API on app
func RegisterRoutes(app *fiber.App, h Handlers) {
	validate := middleware.NewValidationMiddleware()

	app.Get("/", h.Quiz.Health)

	// Swagger handler
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	api := app.Group("/api")

	api.Post("/upload", h.Quiz.UploadDocument)
	api.Get("/sync", h.Quiz.SyncQuizzes)
	api.Put("/quizzes/:id", validate.ValidateUpdateQuiz(), h.Quiz.UpdateQuiz)

	api.Get("/progress", h.Progress.ListProgress)
	api.Post("/progress", validate.ValidateProgress(), h.Progress.RecordProgress)

	api.Get("/topics", h.Topic.ListTopics)
	api.Post("/topics", validate.ValidateCreateTopic(), h.Topic.CreateTopic)
	api.Put("/topics/rename", validate.ValidateRenameTopic(), h.Topic.RenameTopic)
	api.Put("/topics/remove", validate.ValidateRemoveTopic(), h.Topic.RemoveTopic)

	api.Get("/settings", h.Settings.GetSettings)
	api.Put("/settings", validate.ValidateUpdateSettings(), h.Settings.UpdateSettings)
}
