//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"ayubo/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func integrationDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping vote toggle integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Vote{}))
	require.NoError(t, db.Exec("TRUNCATE votes, users RESTART IDENTITY CASCADE").Error)
	return db
}

func integrationUser(t *testing.T, db *gorm.DB, name string) uint {
	t.Helper()
	user := &models.User{
		Username: name,
		Email:    fmt.Sprintf("%s@example.com", name),
		Password: "password123",
	}
	require.NoError(t, db.Create(user).Error)
	return user.ID
}

func toggle(t *testing.T, repo VoteRepository, userID, entityID uint, dir models.VoteDirection) *models.VoteState {
	t.Helper()
	state, err := repo.Toggle(context.Background(), ToggleVoteCommand{
		EntityType: models.VoteEntityPost,
		EntityID:   entityID,
		UserID:     userID,
		Direction:  dir,
	})
	require.NoError(t, err)
	return state
}

func TestIntegration_VoteToggleSemantics(t *testing.T) {
	db := integrationDB(t)
	repo := NewVoteRepository(db)

	alice := integrationUser(t, db, "alice")
	bob := integrationUser(t, db, "bob")

	t.Run("like then like is a no-op round trip", func(t *testing.T) {
		state := toggle(t, repo, alice, 1, models.VoteLike)
		assert.Equal(t, 1, state.LikeCount)
		assert.True(t, state.ViewerLiked)

		state = toggle(t, repo, alice, 1, models.VoteLike)
		assert.Equal(t, 0, state.LikeCount)
		assert.False(t, state.ViewerLiked)
	})

	t.Run("like then dislike switches in one step", func(t *testing.T) {
		state := toggle(t, repo, alice, 2, models.VoteLike)
		assert.Equal(t, 1, state.LikeCount)

		state = toggle(t, repo, alice, 2, models.VoteDislike)
		assert.Equal(t, 0, state.LikeCount)
		assert.Equal(t, 1, state.DislikeCount)
		assert.False(t, state.ViewerLiked)
		assert.True(t, state.ViewerDisliked)

		// One row per (user, entity): the switch must never leave the
		// user on both sides.
		var count int64
		require.NoError(t, db.Model(&models.Vote{}).
			Where("user_id = ? AND entity_id = ?", alice, 2).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("votes are counted per user", func(t *testing.T) {
		toggle(t, repo, alice, 3, models.VoteLike)
		state := toggle(t, repo, bob, 3, models.VoteLike)
		assert.Equal(t, 2, state.LikeCount)
		assert.True(t, state.ViewerLiked)

		// Alice un-votes; bob's vote stays.
		state = toggle(t, repo, alice, 3, models.VoteLike)
		assert.Equal(t, 1, state.LikeCount)
		assert.False(t, state.ViewerLiked)
	})
}
