package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"yatube/internal/models"
	"yatube/internal/repository"
	"yatube/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()
	reader := &models.User{ID: 1, Username: "reader"}
	leo := &models.User{ID: 2, Username: "leo"}

	t.Run("creates the edge", func(t *testing.T) {
		follows := noopFollowRepo()
		var edges [][2]uint
		follows.createFn = func(_ context.Context, userID, authorID uint) (bool, error) {
			edges = append(edges, [2]uint{userID, authorID})
			return true, nil
		}
		svc := NewFollowService(follows, usersByName(reader, leo), noopPostRepo(), 10)

		require.NoError(t, svc.Follow(ctx, reader.ID, "leo"))
		assert.Equal(t, [][2]uint{{1, 2}}, edges)
	})

	t.Run("following yourself does nothing", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.createFn = func(context.Context, uint, uint) (bool, error) {
			t.Fatal("create must not be called")
			return false, nil
		}
		svc := NewFollowService(follows, usersByName(reader, leo), noopPostRepo(), 10)

		assert.NoError(t, svc.Follow(ctx, leo.ID, "leo"))
	})

	t.Run("existing edge is not an error", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.createFn = func(context.Context, uint, uint) (bool, error) { return false, nil }
		svc := NewFollowService(follows, usersByName(reader, leo), noopPostRepo(), 10)

		assert.NoError(t, svc.Follow(ctx, reader.ID, "leo"))
	})

	t.Run("unknown author", func(t *testing.T) {
		svc := NewFollowService(noopFollowRepo(), usersByName(reader), noopPostRepo(), 10)
		err := svc.Follow(ctx, reader.ID, "ghost")
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("storage failure", func(t *testing.T) {
		follows := noopFollowRepo()
		follows.createFn = func(context.Context, uint, uint) (bool, error) {
			return false, models.NewInternalError(errors.New("db down"))
		}
		svc := NewFollowService(follows, usersByName(reader, leo), noopPostRepo(), 10)

		assert.True(t, models.HasCode(svc.Follow(ctx, reader.ID, "leo"), models.CodeInternal))
	})
}

func TestFollowService_UnfollowMissingIsSilent(t *testing.T) {
	follows := noopFollowRepo()
	follows.deleteFn = func(context.Context, uint, uint) (int64, error) { return 0, nil }
	svc := NewFollowService(follows, usersByName(&models.User{ID: 2, Username: "leo"}), noopPostRepo(), 10)

	assert.NoError(t, svc.Unfollow(context.Background(), 1, "leo"))
}

func TestFollowService_IsFollowing(t *testing.T) {
	follows := noopFollowRepo()
	follows.existsFn = func(context.Context, uint, uint) (bool, error) { return true, nil }
	svc := NewFollowService(follows, usersByName(), noopPostRepo(), 10)
	ctx := context.Background()

	ok, err := svc.IsFollowing(ctx, 0, 2)
	require.NoError(t, err)
	assert.False(t, ok, "anonymous")

	ok, err = svc.IsFollowing(ctx, 2, 2)
	require.NoError(t, err)
	assert.False(t, ok, "self")

	ok, err = svc.IsFollowing(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFollowService_Integration(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	follows := repository.NewFollowRepository(db)
	svc := NewFollowService(follows, users, posts, 10)
	ctx := context.Background()

	mk := func(name string) *models.User {
		u := &models.User{Username: name, Password: "x"}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	reader, leo, ann := mk("reader"), mk("leo"), mk("ann")

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i, author := range []*models.User{leo, ann, leo} {
		p := &models.Post{Text: author.Username, AuthorID: author.ID, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, posts.Create(ctx, p))
	}

	countEdges := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&n).Error)
		return n
	}

	feed, err := svc.Feed(ctx, reader.ID, "")
	require.NoError(t, err)
	assert.Empty(t, feed.Items)

	require.NoError(t, svc.Follow(ctx, reader.ID, "leo"))
	require.NoError(t, svc.Follow(ctx, reader.ID, "leo"))
	assert.Equal(t, int64(1), countEdges())

	require.NoError(t, svc.Follow(ctx, reader.ID, "reader"))
	assert.Equal(t, int64(1), countEdges())

	feed, err = svc.Feed(ctx, reader.ID, "")
	require.NoError(t, err)
	require.Len(t, feed.Items, 2)
	for _, p := range feed.Items {
		assert.Equal(t, leo.ID, p.AuthorID)
	}
	assert.True(t, feed.Items[0].CreatedAt.After(feed.Items[1].CreatedAt))

	require.NoError(t, svc.Unfollow(ctx, reader.ID, "leo"))
	require.NoError(t, svc.Unfollow(ctx, reader.ID, "leo"))
	require.NoError(t, svc.Unfollow(ctx, reader.ID, "ann"))
	assert.Equal(t, int64(0), countEdges())
}
