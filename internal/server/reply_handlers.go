package server

import (
	"ayubo/internal/models"
	"ayubo/internal/service"
	"ayubo/internal/thread"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/posts/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *uint  `json:"parent_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.Context(), service.CreateReplyInput{
		UserID:   userID,
		PostID:   postID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies handles GET /api/posts/:id/replies and returns the nested
// reply forest for the post.
func (s *Server) GetReplies(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	forest, err := s.replyService.GetReplyTree(c.Context(), postID, viewerID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if forest == nil {
		forest = []*thread.Node{}
	}

	return c.JSON(forest)
}

// UpdateReply handles PUT /api/replies/:id
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.UpdateReply(c.Context(), service.UpdateReplyInput{
		UserID:  userID,
		ReplyID: replyID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(reply)
}

// DeleteReply handles DELETE /api/replies/:id. Deleting a reply removes
// its whole subtree.
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.replyService.DeleteReply(c.Context(), service.DeleteReplyInput{
		UserID:  userID,
		ReplyID: replyID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
