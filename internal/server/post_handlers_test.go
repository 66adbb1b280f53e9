package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ayubo/internal/models"
	"ayubo/internal/repository"
	"ayubo/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- repository mocks shared by the handler tests ---

type mockPostRepo struct{ mock.Mock }

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepo) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	args := m.Called(ctx, id, viewerID)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) List(ctx context.Context, limit, offset int, viewerID uint, sort string) ([]*models.Post, error) {
	args := m.Called(ctx, limit, offset, viewerID, sort)
	if p := args.Get(0); p != nil {
		return p.([]*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReplyRepo struct{ mock.Mock }

func (m *mockReplyRepo) Create(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *mockReplyRepo) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Reply, error) {
	args := m.Called(ctx, id, viewerID)
	if r := args.Get(0); r != nil {
		return r.(*models.Reply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReplyRepo) ListByPost(ctx context.Context, postID uint, viewerID uint) ([]*models.Reply, error) {
	args := m.Called(ctx, postID, viewerID)
	if r := args.Get(0); r != nil {
		return r.([]*models.Reply), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockReplyRepo) Update(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *mockReplyRepo) DeleteByIDs(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *mockReplyRepo) DeleteByPost(ctx context.Context, postID uint) ([]uint, error) {
	args := m.Called(ctx, postID)
	if ids := args.Get(0); ids != nil {
		return ids.([]uint), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockVoteRepo struct{ mock.Mock }

func (m *mockVoteRepo) Toggle(ctx context.Context, cmd repository.ToggleVoteCommand) (*models.VoteState, error) {
	args := m.Called(ctx, cmd)
	if s := args.Get(0); s != nil {
		return s.(*models.VoteState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVoteRepo) State(ctx context.Context, entityType models.VoteEntity, entityID uint, viewerID uint) (*models.VoteState, error) {
	args := m.Called(ctx, entityType, entityID, viewerID)
	if s := args.Get(0); s != nil {
		return s.(*models.VoteState), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVoteRepo) DeleteForEntities(ctx context.Context, entityType models.VoteEntity, entityIDs []uint) error {
	args := m.Called(ctx, entityType, entityIDs)
	return args.Error(0)
}

// newTestApp wires the server's routes into a fresh Fiber app with the
// given user injected as the authenticated caller (0 = anonymous).
func newTestApp(s *Server, authedUser uint) *fiber.App {
	app := fiber.New()
	if authedUser != 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("userID", authedUser)
			return c.Next()
		})
	}
	app.Post("/api/posts", s.CreatePost)
	app.Get("/api/posts", s.GetPosts)
	app.Get("/api/posts/:id", s.GetPost)
	app.Put("/api/posts/:id", s.UpdatePost)
	app.Delete("/api/posts/:id", s.DeletePost)
	app.Post("/api/posts/:id/replies", s.CreateReply)
	app.Get("/api/posts/:id/replies", s.GetReplies)
	app.Put("/api/replies/:id", s.UpdateReply)
	app.Delete("/api/replies/:id", s.DeleteReply)
	app.Post("/api/votes", s.ToggleVote)
	return app
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newPostTestServer(postRepo *mockPostRepo, replyRepo *mockReplyRepo, voteRepo *mockVoteRepo) *Server {
	s := &Server{}
	s.postService = service.NewPostService(postRepo, replyRepo, voteRepo)
	s.replyService = service.NewReplyService(replyRepo, postRepo, voteRepo)
	s.voteService = service.NewVoteService(voteRepo, postRepo, replyRepo)
	return s
}

func TestCreatePost(t *testing.T) {
	t.Run("creates and returns the post", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Post).ID = 5
			}).Return(nil)
		postRepo.On("GetByID", mock.Anything, uint(5), uint(1)).
			Return(&models.Post{ID: 5, Title: "Greetings", Content: "How do I say hello?", UserID: 1}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
			"title":   "Greetings",
			"content": "How do I say hello?",
			"tags":    []string{"sinhala", "beginner"},
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var got models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Equal(t, uint(5), got.ID)
		assert.Equal(t, "Greetings", got.Title)
		postRepo.AssertExpectations(t)
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		s := newPostTestServer(new(mockPostRepo), new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
			"content": "body only",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("invalid tag is a 400", func(t *testing.T) {
		s := newPostTestServer(new(mockPostRepo), new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", fiber.Map{
			"title":   "t",
			"content": "c",
			"tags":    []string{"Bad Tag!"},
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetPosts(t *testing.T) {
	t.Run("lists with default sort and anonymous viewer", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("List", mock.Anything, 20, 0, uint(0), "new").
			Return([]*models.Post{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 0)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var got []models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Len(t, got, 2)
		postRepo.AssertExpectations(t)
	})

	t.Run("passes sort and pagination through", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("List", mock.Anything, 5, 10, uint(3), "top").
			Return([]*models.Post{}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 3)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?limit=5&offset=10&sort=top", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		postRepo.AssertExpectations(t)
	})
}

func TestGetPost(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(7), uint(0)).
			Return(&models.Post{ID: 7, Title: "hello"}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 0)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/7", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing post is a 404", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(99), uint(0)).
			Return(nil, models.NewNotFoundError("Post", 99))

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 0)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/99", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-numeric id is a 400", func(t *testing.T) {
		s := newPostTestServer(new(mockPostRepo), new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 0)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/abc", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdatePost(t *testing.T) {
	t.Run("non-owner gets a 403", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
			Return(&models.Post{ID: 7, UserID: 99}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/posts/7", fiber.Map{"title": "hijack"}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner can update", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
			Return(&models.Post{ID: 7, UserID: 1, Title: "old", Content: "old"}, nil)
		postRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(jsonRequest(t, http.MethodPut, "/api/posts/7", fiber.Map{"title": "new title"}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		postRepo.AssertExpectations(t)
	})
}

func TestDeletePost(t *testing.T) {
	t.Run("owner delete cascades and returns 204", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
			Return(&models.Post{ID: 7, UserID: 1}, nil)
		postRepo.On("Delete", mock.Anything, uint(7)).Return(nil)

		replyRepo := new(mockReplyRepo)
		replyRepo.On("DeleteByPost", mock.Anything, uint(7)).Return([]uint{11, 12}, nil)

		voteRepo := new(mockVoteRepo)
		voteRepo.On("DeleteForEntities", mock.Anything, models.VoteEntityReply, []uint{11, 12}).Return(nil)
		voteRepo.On("DeleteForEntities", mock.Anything, models.VoteEntityPost, []uint{7}).Return(nil)

		s := newPostTestServer(postRepo, replyRepo, voteRepo)
		app := newTestApp(s, 1)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/7", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		postRepo.AssertExpectations(t)
		replyRepo.AssertExpectations(t)
		voteRepo.AssertExpectations(t)
	})

	t.Run("non-owner gets a 403", func(t *testing.T) {
		postRepo := new(mockPostRepo)
		postRepo.On("GetByID", mock.Anything, uint(7), uint(1)).
			Return(&models.Post{ID: 7, UserID: 2}, nil)

		s := newPostTestServer(postRepo, new(mockReplyRepo), new(mockVoteRepo))
		app := newTestApp(s, 1)

		resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/posts/7", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
