package repository

import (
	"context"
	"regexp"
	"testing"

	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateUsesOnConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows" ("user_id","author_id","created_at") VALUES ($1,$2,$3) ON CONFLICT ("user_id","author_id") DO NOTHING RETURNING "id"`)).
		WithArgs(1, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Integration(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()

	reader := createUser(t, db, "reader")
	leo := createUser(t, db, "leo")

	t.Run("following twice keeps one row", func(t *testing.T) {
		created, err := repo.Create(ctx, reader.ID, leo.ID)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Create(ctx, reader.ID, leo.ID)
		require.NoError(t, err)
		assert.False(t, created)

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", reader.ID, leo.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("exists and counts", func(t *testing.T) {
		ok, err := repo.Exists(ctx, reader.ID, leo.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Exists(ctx, leo.ID, reader.ID)
		require.NoError(t, err)
		assert.False(t, ok, "follow is directional")

		followers, err := repo.CountFollowers(ctx, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), followers)

		following, err := repo.CountFollowing(ctx, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), following)
	})

	t.Run("delete removes the edge once", func(t *testing.T) {
		n, err := repo.Delete(ctx, reader.ID, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = repo.Delete(ctx, reader.ID, leo.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}
