package server

import (
	"errors"
	"strings"

	"ayubo/internal/assist"
	"ayubo/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AssistChat handles POST /api/assist/chat
func (s *Server) AssistChat(c *fiber.Ctx) error {
	var req struct {
		Messages []assist.Message `json:"messages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if len(req.Messages) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("At least one message is required"))
	}

	result, err := s.assistClient.Chat(c.Context(), req.Messages)
	if err != nil {
		return respondAssistError(c, err)
	}

	return c.JSON(fiber.Map{"result": result})
}

// AssistOCR handles POST /api/assist/ocr
func (s *Server) AssistOCR(c *fiber.Ctx) error {
	var req struct {
		ImageURL string `json:"image_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("image_url is required"))
	}

	text, err := s.assistClient.Recognize(c.Context(), req.ImageURL)
	if err != nil {
		return respondAssistError(c, err)
	}

	return c.JSON(fiber.Map{"text": text})
}

// AssistTranslate handles POST /api/assist/translate
func (s *Server) AssistTranslate(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Text) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("text is required"))
	}
	if req.From == "" || req.To == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("from and to languages are required"))
	}

	translated, err := s.assistClient.Translate(c.Context(), req.Text, req.From, req.To)
	if err != nil {
		return respondAssistError(c, err)
	}

	return c.JSON(fiber.Map{"translated_text": translated})
}

// respondAssistError maps outbound API failures. A missing configuration
// is a 503 so callers can distinguish it from their own bad input.
func respondAssistError(c *fiber.Ctx, err error) error {
	if errors.Is(err, assist.ErrNotConfigured) {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, err)
	}
	return models.RespondWithError(c, fiber.StatusBadGateway, err)
}
