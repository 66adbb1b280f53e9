package repository

import (
	"context"
	"errors"

	"ayubo/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines persistence operations for replies.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Reply, error)
	ListByPost(ctx context.Context, postID uint, viewerID uint) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	DeleteByIDs(ctx context.Context, ids []uint) error
	DeleteByPost(ctx context.Context, postID uint) ([]uint, error)
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new ReplyRepository
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Create(reply).Error
}

func (r *replyRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		First(&reply, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		return nil, err
	}
	return &reply, nil
}

// ListByPost returns every reply anchored to the post at any nesting
// depth, newest first. Nesting order is imposed later by the thread
// package, which preserves this input order within each child list.
func (r *replyRepository) ListByPost(ctx context.Context, postID uint, viewerID uint) ([]*models.Reply, error) {
	var replies []*models.Reply
	err := r.applyVoteDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at desc").
		Find(&replies).Error
	return replies, err
}

func (r *replyRepository) applyVoteDetails(db *gorm.DB, viewerID uint) *gorm.DB {
	selectQuery := "replies.*, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entity_type = 'reply' AND votes.entity_id = replies.id AND votes.direction = 'like') as like_count, " +
		"(SELECT COUNT(*) FROM votes WHERE votes.entity_type = 'reply' AND votes.entity_id = replies.id AND votes.direction = 'dislike') as dislike_count"

	if viewerID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM votes WHERE votes.entity_type = 'reply' AND votes.entity_id = replies.id AND votes.user_id = ? AND votes.direction = 'like') as viewer_liked"+
			", EXISTS(SELECT 1 FROM votes WHERE votes.entity_type = 'reply' AND votes.entity_id = replies.id AND votes.user_id = ? AND votes.direction = 'dislike') as viewer_disliked",
			viewerID, viewerID)
	}

	return db.Select(selectQuery + ", false as viewer_liked, false as viewer_disliked")
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

// DeleteByIDs removes a deletion closure in bulk. Ids already absent
// are silently skipped, which keeps interrupted cascades re-runnable.
func (r *replyRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.Reply{}, "id IN ?", ids).Error
}

// DeleteByPost removes every reply belonging to the post and returns
// the affected ids so the caller can clear their votes.
func (r *replyRepository) DeleteByPost(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Reply{}).
		Where("post_id = ?", postID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Delete(&models.Reply{}, "post_id = ?", postID).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
