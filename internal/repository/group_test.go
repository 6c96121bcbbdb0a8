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

func TestGroupRepository_GetBySlug(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE slug = $1 ORDER BY "groups"."id" LIMIT $2`)).
		WithArgs("cats", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "slug"}).AddRow(1, "Cats", "cats"))

	group, err := repo.GetBySlug(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "Cats", group.Title)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "groups" WHERE slug = $1`)).
		WithArgs("dogs", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetBySlug(ctx, "dogs")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_CreateListDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Dogs", Slug: "dogs"}))
	require.NoError(t, repo.Create(ctx, &models.Group{Title: "Cats", Slug: "cats"}))

	err := repo.Create(ctx, &models.Group{Title: "More cats", Slug: "cats"})
	assert.True(t, models.HasCode(err, models.CodeValidation))

	groups, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Cats", groups[0].Title)

	require.NoError(t, repo.Delete(ctx, groups[0].ID))
	assert.True(t, models.HasCode(repo.Delete(ctx, groups[0].ID), models.CodeNotFound))
}
