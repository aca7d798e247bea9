package handler

import (
	"study-buddy/internal/dto"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProgressHandler records and lists quiz sessions
type ProgressHandler struct {
	service service.ProgressService
}

func NewProgressHandler(service service.ProgressService) *ProgressHandler {
	return &ProgressHandler{service: service}
}

// RecordProgress godoc
// @Summary Record a quiz session
// @Tags progress
// @Accept json
// @Produce json
// @Param request body dto.ProgressRequest true "Session score"
// @Success 201 {object} dto.SessionEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /progress [post]
func (h *ProgressHandler) RecordProgress(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.ProgressRequest](c)
	if err != nil {
		return err
	}

	session, err := h.service.RecordSession(c.UserContext(), *req.Score, *req.Total, req.PerTopic)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SessionEnvelope{Session: dto.NewSessionResponse(session)})
}

// ListProgress godoc
// @Summary List quiz sessions
// @Description Returns every recorded session, oldest first
// @Tags progress
// @Produce json
// @Success 200 {object} dto.SessionsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /progress [get]
func (h *ProgressHandler) ListProgress(c *fiber.Ctx) error {
	sessions, err := h.service.ListSessions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionsResponse(sessions))
}
