package repository

import (
	"context"
	"regexp"
	"testing"

	"ayubo/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestReplyRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	reply := &models.Reply{Content: "Nice post!", PostID: 1, UserID: 1}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "replies"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, reply)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_GetByID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		rows := sqlmock.NewRows([]string{
			"id", "content", "post_id", "user_id",
			"like_count", "dislike_count", "viewer_liked", "viewer_disliked",
		}).AddRow(3, "mama hondin innawa", 1, 2, 5, 0, false, false)
		mock.ExpectQuery(`SELECT replies\.\*.+false as viewer_liked.+FROM "replies"`).
			WithArgs(3, 1).
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(2, "author"))

		reply, err := repo.GetByID(context.Background(), 3, 0)
		assert.NoError(t, err)
		if assert.NotNil(t, reply) {
			assert.Equal(t, 5, reply.LikeCount)
			assert.Equal(t, uint(1), reply.PostID)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		mock.ExpectQuery(`SELECT replies\.\*.+FROM "replies"`).
			WithArgs(99, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		reply, err := repo.GetByID(context.Background(), 99, 0)
		assert.Nil(t, reply)
		var appErr *models.AppError
		if assert.ErrorAs(t, err, &appErr) {
			assert.Equal(t, models.CodeNotFound, appErr.Code)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplyRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewReplyRepository(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "content", "post_id", "user_id", "parent_id"}).
		AddRow(2, "nested", 1, 102, 1).
		AddRow(1, "top level", 1, 101, nil)
	mock.ExpectQuery(`SELECT replies\.\*.+FROM "replies" WHERE post_id = \$\d.+ORDER BY created_at desc`).
		WithArgs(1).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(101).AddRow(102))

	replies, err := repo.ListByPost(ctx, 1, 0)
	assert.NoError(t, err)
	assert.Len(t, replies, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplyRepository_DeleteByIDs(t *testing.T) {
	t.Run("deletes the whole closure in one statement", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "replies" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		err := repo.DeleteByIDs(context.Background(), []uint{4, 5, 6})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty id set issues no SQL", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		err := repo.DeleteByIDs(context.Background(), nil)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReplyRepository_DeleteByPost(t *testing.T) {
	t.Run("returns the affected ids", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "replies" WHERE post_id = $1`)).
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11).AddRow(12))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "replies" SET "deleted_at"`)).
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		ids, err := repo.DeleteByPost(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, []uint{11, 12}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no replies means no delete", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewReplyRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id" FROM "replies" WHERE post_id = $1`)).
			WithArgs(8).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		ids, err := repo.DeleteByPost(context.Background(), 8)
		assert.NoError(t, err)
		assert.Nil(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
