package repository

import (
	"context"
	"errors"

	"ayubo/internal/cache"
	"ayubo/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// Every read is annotated with vote aggregates for the viewing user.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidatePostsList(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post

	load := func() error {
		return r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
			Preload("User").
			First(&post, id).Error
	}

	var err error
	if viewerID == 0 {
		// Anonymous reads carry no viewer flags, so they are safe to share.
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, load)
	} else {
		err = load()
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

// defaultListPageLimit matches the handlers' default page size. Only
// that exact anonymous first page is requested often enough to cache.
const defaultListPageLimit = 20

func (r *postRepository) List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	var posts []*models.Post

	load := func() error {
		base := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
			Preload("User")
		return r.applySort(base, sort).
			Limit(limit).
			Offset(offset).
			Find(&posts).Error
	}

	var err error
	if viewerID == 0 && sort == "new" && offset == 0 && limit == defaultListPageLimit {
		err = cache.Aside(ctx, cache.PostsListKey, &posts, cache.ListTTL, load)
	} else {
		err = load()
	}
	return posts, err
}

// applySort appends the ORDER BY clause for the requested sort type.
// like_count and replies_count are SELECT aliases from applyVoteDetails;
// PostgreSQL allows referencing them in ORDER BY at the same query level.
func (r *postRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "top":
		return db.Order("(like_count - dislike_count) DESC, created_at DESC")
	case "trending":
		return db.
			Where("posts.created_at > NOW() - INTERVAL '48 hours'").
			Order("(like_count + replies_count * 2) DESC")
	default: // "new" and anything unrecognized
		return db.Order("created_at DESC")
	}
}

// applyVoteDetails adds subqueries to fetch vote aggregates and the
// viewer's own vote in a single query.
func (r *postRepository) applyVoteDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entity_type = 'post' AND votes.entity_id = posts.id AND votes.direction = 'like') as like_count, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entity_type = 'post' AND votes.entity_id = posts.id AND votes.direction = 'dislike') as dislike_count, " +
		"(SELECT COUNT(*) FROM replies WHERE replies.post_id = posts.id AND replies.deleted_at IS NULL) as replies_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM votes WHERE votes.entity_type = 'post' AND votes.entity_id = posts.id AND votes.user_id = ? AND votes.direction = 'like') as viewer_liked"+
			", EXISTS(SELECT 1 FROM votes WHERE votes.entity_type = 'post' AND votes.entity_id = posts.id AND votes.user_id = ? AND votes.direction = 'dislike') as viewer_disliked",
			viewerID, viewerID)
	}

	return db.Select(selectQuery + ", false as viewer_liked, false as viewer_disliked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	cache.InvalidatePostsList(ctx)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.PostKey(id))
	cache.InvalidatePostsList(ctx)
	return nil
}
