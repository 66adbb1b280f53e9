package seed

import (
	"testing"

	"ayubo/internal/models"
	"ayubo/internal/thread"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dryRunSeeder(t *testing.T, opts Options) *Seeder {
	t.Helper()
	opts.DryRun = true
	opts.SkipBcrypt = true
	return NewSeeder(nil, opts)
}

func TestSeeder_BuildUser(t *testing.T) {
	s := dryRunSeeder(t, Options{})

	user := s.BuildUser()
	assert.NotEmpty(t, user.Username)
	assert.NotEmpty(t, user.Email)
	assert.Equal(t, "password123", user.Password)

	custom := s.BuildUser(func(u *models.User) { u.Username = "fixed" })
	assert.Equal(t, "fixed", custom.Username)
}

func TestSeeder_CreateUsers_AssignsIDs(t *testing.T) {
	s := dryRunSeeder(t, Options{})

	users, err := s.CreateUsers(5)
	require.NoError(t, err)
	require.Len(t, users, 5)

	seen := map[uint]bool{}
	for _, u := range users {
		assert.NotZero(t, u.ID)
		assert.False(t, seen[u.ID], "duplicate synthetic ID %d", u.ID)
		seen[u.ID] = true
	}
}

func TestSeeder_CreatePosts_TagsAreValid(t *testing.T) {
	s := dryRunSeeder(t, Options{})

	users, err := s.CreateUsers(3)
	require.NoError(t, err)
	posts, err := s.CreatePosts(users, 20)
	require.NoError(t, err)
	require.Len(t, posts, 20)

	for _, p := range posts {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Content)
		assert.LessOrEqual(t, len(p.Tags), 3)
		for _, tag := range p.Tags {
			assert.Contains(t, tagPool, tag)
		}
	}
}

func TestSeeder_CreatePosts_NoUsers(t *testing.T) {
	s := dryRunSeeder(t, Options{})
	_, err := s.CreatePosts(nil, 5)
	assert.Error(t, err)
}

func TestSeeder_CreateThread_BuildsAWellFormedTree(t *testing.T) {
	s := dryRunSeeder(t, Options{MaxRepliesPerPost: 30})

	users, err := s.CreateUsers(4)
	require.NoError(t, err)
	posts, err := s.CreatePosts(users, 1)
	require.NoError(t, err)

	replies, err := s.CreateThread(posts[0], users)
	require.NoError(t, err)

	// Every parent pointer must reference an earlier reply in the same
	// thread, so the tree assembler must account for every reply.
	forest := thread.BuildTree(replies)
	assert.Len(t, thread.Flatten(forest), len(replies))
	for _, r := range replies {
		assert.Equal(t, posts[0].ID, r.PostID)
	}
}

func TestSeeder_CreateVotes_DistinctVoters(t *testing.T) {
	s := dryRunSeeder(t, Options{MaxVotesPerEntity: 3})

	users, err := s.CreateUsers(2)
	require.NoError(t, err)

	// MaxVotesPerEntity exceeds the user count; the seeder must cap the
	// voters rather than violate one-vote-per-user.
	require.NoError(t, s.CreateVotes(users, models.VoteEntityPost, 1))
}
