package repository

import (
	"context"
	"errors"

	"ayubo/internal/cache"
	"ayubo/internal/models"
	"ayubo/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ToggleVoteCommand is the validated, strongly-typed form of a vote
// request dispatched to the storage layer's atomic update primitives.
type ToggleVoteCommand struct {
	EntityType models.VoteEntity
	EntityID   uint
	UserID     uint
	Direction  models.VoteDirection
}

// toggleRetries bounds internal retries when the storage layer signals
// a write conflict (serialization failure or deadlock). Conflicts are
// never surfaced to callers; after the last attempt the raw error is
// returned as a transient failure.
const toggleRetries = 3

// VoteRepository owns the votes table: one row per (user, entity) with
// a like or dislike direction.
type VoteRepository interface {
	Toggle(ctx context.Context, cmd ToggleVoteCommand) (*models.VoteState, error)
	State(ctx context.Context, entityType models.VoteEntity, entityID uint, viewerID uint) (*models.VoteState, error)
	DeleteForEntities(ctx context.Context, entityType models.VoteEntity, entityIDs []uint) error
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Toggle applies toggle semantics in two single-statement writes, each
// atomic on its own:
//
//  1. A conditional DELETE of the caller's same-direction vote. If a
//     row was removed the request was an un-vote and we are done.
//  2. Otherwise an upsert keyed by (user, entity) that inserts the vote
//     or, when the caller held the opposite vote, switches its
//     direction in the same statement.
//
// Because every statement is keyed by (user_id, entity_type, entity_id)
// there is no shared read-modify-write window between different users
// voting on the same entity, and the unique index keeps a user out of
// both directions at once under any interleaving.
func (r *voteRepository) Toggle(ctx context.Context, cmd ToggleVoteCommand) (*models.VoteState, error) {
	var lastErr error
	for attempt := 0; attempt < toggleRetries; attempt++ {
		if err := r.toggleOnce(ctx, cmd); err != nil {
			if isWriteConflict(err) {
				observability.VoteToggleConflicts.Inc()
				lastErr = err
				continue
			}
			return nil, err
		}
		observability.VoteToggles.WithLabelValues(string(cmd.EntityType), string(cmd.Direction)).Inc()
		r.invalidate(ctx, cmd)
		return r.State(ctx, cmd.EntityType, cmd.EntityID, cmd.UserID)
	}
	return nil, models.NewInternalError(lastErr)
}

func (r *voteRepository) toggleOnce(ctx context.Context, cmd ToggleVoteCommand) error {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM votes
		 WHERE user_id = ? AND entity_type = ? AND entity_id = ? AND direction = ?`,
		cmd.UserID, cmd.EntityType, cmd.EntityID, cmd.Direction,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil // un-vote
	}

	res = r.db.WithContext(ctx).Exec(
		`INSERT INTO votes (user_id, entity_type, entity_id, direction, created_at)
		 VALUES (?, ?, ?, ?, NOW())
		 ON CONFLICT (user_id, entity_type, entity_id)
		 DO UPDATE SET direction = EXCLUDED.direction, created_at = EXCLUDED.created_at`,
		cmd.UserID, cmd.EntityType, cmd.EntityID, cmd.Direction,
	)
	return res.Error
}

// State computes the derived vote view for one (entity, viewer) pair.
func (r *voteRepository) State(ctx context.Context, entityType models.VoteEntity, entityID uint, viewerID uint) (*models.VoteState, error) {
	type row struct {
		Direction models.VoteDirection
		Count     int
		Mine      bool
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Select("direction, COUNT(*) as count, bool_or(user_id = ?) as mine", viewerID).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Group("direction").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	state := &models.VoteState{}
	for _, v := range rows {
		switch v.Direction {
		case models.VoteLike:
			state.LikeCount = v.Count
			state.ViewerLiked = v.Mine
		case models.VoteDislike:
			state.DislikeCount = v.Count
			state.ViewerDisliked = v.Mine
		}
	}
	return state, nil
}

// DeleteForEntities clears votes for a batch of deleted entities.
// Missing rows are not an error, so cascades can be re-run safely.
func (r *voteRepository) DeleteForEntities(ctx context.Context, entityType models.VoteEntity, entityIDs []uint) error {
	if len(entityIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id IN ?", entityType, entityIDs).
		Delete(&models.Vote{}).Error
}

func (r *voteRepository) invalidate(ctx context.Context, cmd ToggleVoteCommand) {
	if cmd.EntityType == models.VoteEntityPost {
		cache.Invalidate(ctx, cache.PostKey(cmd.EntityID))
		cache.InvalidatePostsList(ctx)
	}
}

// isWriteConflict reports whether the storage layer rejected a write
// with a retryable conflict (serialization failure or deadlock).
func isWriteConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
