package handler

import (
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TopicHandler serves the aggregated topic view and topic edits
type TopicHandler struct {
	service service.TopicService
}

func NewTopicHandler(service service.TopicService) *TopicHandler {
	return &TopicHandler{service: service}
}

// ListTopics godoc
// @Summary List topics
// @Description Aggregates quizzes by topic, ordered by the newest quiz of each topic
// @Tags topics
// @Produce json
// @Success 200 {object} dto.TopicsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics [get]
func (h *TopicHandler) ListTopics(c *fiber.Ctx) error {
	topics, err := h.service.ListTopics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTopicsResponse(topics))
}

// CreateTopic godoc
// @Summary Create a topic
// @Description Stores an empty quiz labeled with the topic so it shows up before any upload
// @Tags topics
// @Accept json
// @Produce json
// @Param request body dto.CreateTopicRequest true "Topic"
// @Success 201 {object} dto.QuizEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics [post]
func (h *TopicHandler) CreateTopic(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.CreateTopicRequest](c)
	if err != nil {
		return err
	}

	quiz, err := h.service.CreateTopic(c.UserContext(), req.Topic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.QuizEnvelope{Quiz: dto.NewQuizResponse(quiz)})
}

// RenameTopic godoc
// @Summary Rename a topic
// @Description Relabels every quiz whose topic is old_topic
// @Tags topics
// @Accept json
// @Produce json
// @Param request body dto.RenameTopicRequest true "Old and new topic"
// @Success 200 {object} dto.UpdatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics/rename [put]
func (h *TopicHandler) RenameTopic(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.RenameTopicRequest](c)
	if err != nil {
		return err
	}

	updated, err := h.service.RenameTopic(c.UserContext(), req.OldTopic, req.NewTopic)
	if err != nil {
		logger.Get().Error("Failed to rename topic",
			zap.Error(err),
			zap.String("old_topic", req.OldTopic),
			zap.Int("updated", updated),
		)
		return err
	}
	return c.JSON(dto.UpdatedResponse{Updated: updated})
}

// RemoveTopic godoc
// @Summary Remove a topic
// @Description Clears the topic from its quizzes. Quizzes and questions are kept.
// @Tags topics
// @Accept json
// @Produce json
// @Param request body dto.RemoveTopicRequest true "Topic"
// @Success 200 {object} dto.UpdatedResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /topics/remove [put]
func (h *TopicHandler) RemoveTopic(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.RemoveTopicRequest](c)
	if err != nil {
		return err
	}

	updated, err := h.service.RemoveTopic(c.UserContext(), req.Topic)
	if err != nil {
		logger.Get().Error("Failed to remove topic",
			zap.Error(err),
			zap.String("topic", req.Topic),
			zap.Int("updated", updated),
		)
		return err
	}
	return c.JSON(dto.UpdatedResponse{Updated: updated})
}
