package handler

import (
	"encoding/json"
	"io"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UploadSuccessMessage is returned with every stored upload
const UploadSuccessMessage = "Quiz generated and saved"

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// Health godoc
// @Summary Service health
// @Description Reports that the API is running
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router / [get]
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{
		Message: "Study Buddy API is running...",
		Status:  "online",
	})
}

// UploadDocument godoc
// @Summary Generate a quiz from a PDF
// @Description Extracts the text of the uploaded PDF, generates a quiz with the configured model and stores it
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF document"
// @Success 201 {object} dto.UploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /upload [post]
func (h *QuizHandler) UploadDocument(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.NewValidationError("No file uploaded").WithContext("field", "file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.NewInternalError("Failed to open uploaded file", err)
	}
	defer file.Close()

	document, err := io.ReadAll(file)
	if err != nil {
		return domain.NewInternalError("Failed to read uploaded file", err)
	}

	quiz, err := h.service.UploadDocument(c.UserContext(), fileHeader.Filename, document)
	if err != nil {
		logger.Get().Error("Failed to generate quiz from upload",
			zap.Error(err),
			zap.String("filename", fileHeader.Filename),
			zap.Int("size", len(document)),
		)
		return err
	}

	resp := dto.NewQuizResponse(quiz)
	return c.Status(fiber.StatusCreated).JSON(dto.UploadResponse{
		Message:  UploadSuccessMessage,
		ID:       resp.ID,
		Filename: resp.Filename,
		Topic:    resp.Topic,
	})
}

// SyncQuizzes godoc
// @Summary Quiz feed for devices
// @Description Returns every stored quiz, newest first
// @Tags quiz
// @Produce json
// @Success 200 {object} dto.SyncResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sync [get]
func (h *QuizHandler) SyncQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.SyncQuizzes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSyncResponse(quizzes))
}

// UpdateQuiz godoc
// @Summary Edit a quiz
// @Description Changes the topic label and/or replaces the quiz data. A null topic clears the label.
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param request body dto.UpdateQuizRequest true "Fields to change"
// @Success 200 {object} dto.QuizEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes/{id} [put]
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.UpdateQuizRequest](c)
	if err != nil {
		return err
	}

	var update service.QuizUpdate
	if len(req.Topic) > 0 {
		// null decodes to "" which clears the label
		var topic *string
		if err := json.Unmarshal(req.Topic, &topic); err != nil {
			return domain.NewError(domain.CodeValidation, "topic must be a string or null", err)
		}
		cleared := ""
		if topic == nil {
			topic = &cleared
		}
		update.Topic = topic
	}
	if len(req.QuizData) > 0 {
		update.QuizData = req.QuizData
	}

	quiz, err := h.service.UpdateQuiz(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return err
	}
	return c.JSON(dto.QuizEnvelope{Quiz: dto.NewQuizResponse(quiz)})
}
