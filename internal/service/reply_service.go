package service

import (
	"context"

	"ayubo/internal/cache"
	"ayubo/internal/models"
	"ayubo/internal/observability"
	"ayubo/internal/repository"
	"ayubo/internal/thread"
)

type ReplyService struct {
	replyRepo repository.ReplyRepository
	postRepo  repository.PostRepository
	voteRepo  repository.VoteRepository
}

type CreateReplyInput struct {
	UserID   uint
	PostID   uint
	ParentID *uint
	Content  string
}

type UpdateReplyInput struct {
	UserID  uint
	ReplyID uint
	Content string
}

type DeleteReplyInput struct {
	UserID  uint
	ReplyID uint
}

func NewReplyService(
	replyRepo repository.ReplyRepository,
	postRepo repository.PostRepository,
	voteRepo repository.VoteRepository,
) *ReplyService {
	return &ReplyService{
		replyRepo: replyRepo,
		postRepo:  postRepo,
		voteRepo:  voteRepo,
	}
}

func (s *ReplyService) CreateReply(ctx context.Context, in CreateReplyInput) (*models.Reply, error) {
	const maxReplyLen = 10000

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxReplyLen {
		return nil, models.NewValidationError("Reply too long (max 10000 characters)")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	// A nested reply must hang off a reply in the same thread.
	if in.ParentID != nil {
		parent, err := s.replyRepo.GetByID(ctx, *in.ParentID, 0)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent reply belongs to a different post")
		}
	}

	reply := &models.Reply{
		Content:  in.Content,
		UserID:   in.UserID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	// The post's replies_count changed.
	cache.Invalidate(ctx, cache.PostKey(in.PostID))
	cache.InvalidatePostsList(ctx)

	return s.replyRepo.GetByID(ctx, reply.ID, in.UserID)
}

// GetReplyTree loads the post's flat reply set and assembles it into a
// nested forest of top-level replies with their descendants.
func (s *ReplyService) GetReplyTree(ctx context.Context, postID uint, viewerID uint) ([]*thread.Node, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	flat, err := s.replyRepo.ListByPost(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	return thread.BuildTree(flat), nil
}

func (s *ReplyService) UpdateReply(ctx context.Context, in UpdateReplyInput) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := requireOwner(reply.UserID, in.UserID, "replies"); err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	reply.Content = in.Content
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}

	return s.replyRepo.GetByID(ctx, in.ReplyID, in.UserID)
}

// DeleteReply removes the reply and its entire subtree, then clears the
// votes cast on the removed replies. The subtree is computed from the
// post's flat reply set, so the delete is a single bulk statement no
// matter how deep the thread runs.
func (s *ReplyService) DeleteReply(ctx context.Context, in DeleteReplyInput) error {
	reply, err := s.replyRepo.GetByID(ctx, in.ReplyID, in.UserID)
	if err != nil {
		return err
	}

	if err := requireOwner(reply.UserID, in.UserID, "replies"); err != nil {
		return err
	}

	flat, err := s.replyRepo.ListByPost(ctx, reply.PostID, 0)
	if err != nil {
		return err
	}
	ids := thread.CollectSubtreeIDs(in.ReplyID, flat)

	if err := s.replyRepo.DeleteByIDs(ctx, ids); err != nil {
		return err
	}
	if err := s.voteRepo.DeleteForEntities(ctx, models.VoteEntityReply, ids); err != nil {
		return err
	}
	observability.RepliesDeleted.WithLabelValues("reply").Add(float64(len(ids)))

	cache.Invalidate(ctx, cache.PostKey(reply.PostID))
	cache.InvalidatePostsList(ctx)
	return nil
}
