package server

import (
	"ayubo/internal/models"
	"ayubo/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ToggleVote handles POST /api/votes. The same request toggles a vote
// on and off; sending the opposite direction switches it.
func (s *Server) ToggleVote(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		EntityType string `json:"entity_type"`
		EntityID   uint   `json:"entity_id"`
		Direction  string `json:"direction"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	state, err := s.voteService.ToggleVote(c.Context(), service.ToggleVoteInput{
		UserID:     userID,
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Direction:  req.Direction,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(state)
}
