package service

import (
	"context"

	"ayubo/internal/cache"
	"ayubo/internal/models"
	"ayubo/internal/observability"
	"ayubo/internal/repository"
	"ayubo/internal/validation"
)

type PostService struct {
	postRepo  repository.PostRepository
	replyRepo repository.ReplyRepository
	voteRepo  repository.VoteRepository
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
	Tags    []string
}

type ListPostsInput struct {
	Limit    int
	Offset   int
	ViewerID uint
	Sort     string
}

// UpdatePostInput uses patch semantics: zero-valued fields are left
// unchanged. Tags is a pointer so an explicit empty list can clear them.
type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
	Tags    *[]string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(
	postRepo repository.PostRepository,
	replyRepo repository.ReplyRepository,
	voteRepo repository.VoteRepository,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		replyRepo: replyRepo,
		voteRepo:  voteRepo,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300
	const maxContentLen = 50000 // 50K characters

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if err := validation.ValidateTags(in.Tags); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		Tags:    in.Tags,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, in.Limit, in.Offset, in.ViewerID, in.Sort)
}

func (s *PostService) GetPost(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, viewerID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}

	if err := requireOwner(post.UserID, in.UserID, "posts"); err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Tags != nil {
		if err := validation.ValidateTags(*in.Tags); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		post.Tags = *in.Tags
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

// DeletePost removes the post together with its whole reply thread and
// every vote cast on the post or any of its replies. Each step skips
// rows that are already gone, so a cascade interrupted midway can be
// re-run to completion.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return err
	}

	if err := requireOwner(post.UserID, in.UserID, "posts"); err != nil {
		return err
	}

	replyIDs, err := s.replyRepo.DeleteByPost(ctx, in.PostID)
	if err != nil {
		return err
	}
	if len(replyIDs) > 0 {
		if err := s.voteRepo.DeleteForEntities(ctx, models.VoteEntityReply, replyIDs); err != nil {
			return err
		}
		observability.RepliesDeleted.WithLabelValues("post").Add(float64(len(replyIDs)))
	}

	if err := s.voteRepo.DeleteForEntities(ctx, models.VoteEntityPost, []uint{in.PostID}); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, in.PostID); err != nil {
		return err
	}

	cache.Invalidate(ctx, cache.PostKey(in.PostID))
	cache.InvalidatePostsList(ctx)
	return nil
}
