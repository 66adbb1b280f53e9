package service

import (
	"context"

	"ayubo/internal/models"
	"ayubo/internal/repository"
)

// VoteService validates vote requests and dispatches them to the
// storage layer's atomic toggle.
type VoteService struct {
	voteRepo  repository.VoteRepository
	postRepo  repository.PostRepository
	replyRepo repository.ReplyRepository
}

type ToggleVoteInput struct {
	UserID     uint
	EntityType string
	EntityID   uint
	Direction  string
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	replyRepo repository.ReplyRepository,
) *VoteService {
	return &VoteService{
		voteRepo:  voteRepo,
		postRepo:  postRepo,
		replyRepo: replyRepo,
	}
}

// ToggleVote flips the caller's vote on a post or reply:
// no vote -> vote, same vote -> removed, opposite vote -> switched.
// The returned state reflects the entity after the toggle.
func (s *VoteService) ToggleVote(ctx context.Context, in ToggleVoteInput) (*models.VoteState, error) {
	entityType := models.VoteEntity(in.EntityType)
	if !entityType.Valid() {
		return nil, models.NewValidationError("entity_type must be 'post' or 'reply'")
	}
	direction := models.VoteDirection(in.Direction)
	if !direction.Valid() {
		return nil, models.NewValidationError("direction must be 'like' or 'dislike'")
	}
	if in.EntityID == 0 {
		return nil, models.NewValidationError("entity_id is required")
	}

	// Voting on a missing entity is a 404, not a silent insert.
	switch entityType {
	case models.VoteEntityPost:
		if _, err := s.postRepo.GetByID(ctx, in.EntityID, 0); err != nil {
			return nil, err
		}
	case models.VoteEntityReply:
		if _, err := s.replyRepo.GetByID(ctx, in.EntityID, 0); err != nil {
			return nil, err
		}
	}

	return s.voteRepo.Toggle(ctx, repository.ToggleVoteCommand{
		EntityType: entityType,
		EntityID:   in.EntityID,
		UserID:     in.UserID,
		Direction:  direction,
	})
}

// VoteState returns the current vote aggregates for an entity from the
// given viewer's perspective.
func (s *VoteService) VoteState(ctx context.Context, entityType models.VoteEntity, entityID uint, viewerID uint) (*models.VoteState, error) {
	if !entityType.Valid() {
		return nil, models.NewValidationError("entity_type must be 'post' or 'reply'")
	}
	return s.voteRepo.State(ctx, entityType, entityID, viewerID)
}
