package handler

import (
	"study-buddy/internal/dto"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler serves the application settings singleton
type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(service service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetSettings godoc
// @Summary Get settings
// @Description Returns the settings, creating them with the game theme on first use
// @Tags settings
// @Produce json
// @Success 200 {object} dto.SettingsEnvelope
// @Failure 500 {object} dto.ErrorResponse
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSettingsEnvelope(settings))
}

// UpdateSettings godoc
// @Summary Change the theme
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Theme: game, minimal-dark or minimal-light"
// @Success 200 {object} dto.SettingsEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	req, err := middleware.ValidatedBody[dto.UpdateSettingsRequest](c)
	if err != nil {
		return err
	}

	settings, err := h.service.UpdateTheme(c.UserContext(), req.Theme)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSettingsEnvelope(settings))
}
