package service

import (
	"context"
	"errors"
	"testing"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps author from session", func(t *testing.T) {
		repo := noopPostRepo()
		var stored *models.Post
		repo.createFn = func(_ context.Context, p *models.Post) error {
			stored = p
			p.ID = 11
			return nil
		}
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		post, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 5, Text: "hello", GroupID: uintPtr(2)})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint(5), stored.AuthorID)
		assert.Equal(t, uint(2), *stored.GroupID)
		assert.Equal(t, uint(11), post.ID)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		svc := NewPostService(noopPostRepo(), noopGroupRepo(), nil, 10)
		_, err := svc.CreatePost(ctx, CreatePostInput{Text: "hello"})
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
	})

	t.Run("blank text is a field error", func(t *testing.T) {
		repo := noopPostRepo()
		repo.createFn = func(context.Context, *models.Post) error {
			t.Fatal("create must not be called")
			return nil
		}
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 5, Text: "   "})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "text", appErr.Field)
	})

	t.Run("unknown group is a field error", func(t *testing.T) {
		groups := noopGroupRepo()
		groups.getByIDFn = func(_ context.Context, id uint) (*models.Group, error) {
			return nil, models.NewNotFoundError("Group", id)
		}
		svc := NewPostService(noopPostRepo(), groups, nil, 10)

		_, err := svc.CreatePost(ctx, CreatePostInput{AuthorID: 5, Text: "hi", GroupID: uintPtr(99)})
		var appErr *models.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "group", appErr.Field)
	})

	t.Run("image is uploaded", func(t *testing.T) {
		images := &imageUploaderStub{url: "/media/posts/x.webp"}
		svc := NewPostService(noopPostRepo(), noopGroupRepo(), images, 10)

		post, err := svc.CreatePost(ctx, CreatePostInput{
			AuthorID: 5,
			Text:     "with picture",
			Image:    &ImageUpload{Content: []byte("png"), ContentType: "image/png"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, images.calls)
		assert.Equal(t, "/media/posts/x.webp", post.Image)
	})
}

func TestPostService_UpdatePost(t *testing.T) {
	ctx := context.Background()
	original := func() *models.Post {
		return &models.Post{ID: 3, AuthorID: 5, Text: "original", Image: "/media/posts/old.webp"}
	}

	t.Run("non-author cannot edit", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return original(), nil }
		repo.updateFn = func(context.Context, *models.Post) error {
			t.Fatal("update must not be called")
			return nil
		}
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 6, PostID: 3, Text: "hijacked"})
		assert.True(t, models.HasCode(err, models.CodeUnauthorized))
		assert.Equal(t, "original", post.Text)
	})

	t.Run("author edits text and keeps image", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return original(), nil }
		var saved *models.Post
		repo.updateFn = func(_ context.Context, p *models.Post) error {
			saved = p
			return nil
		}
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 5, PostID: 3, Text: "edited"})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "edited", saved.Text)
		assert.Equal(t, "/media/posts/old.webp", saved.Image)
		assert.Nil(t, saved.GroupID)
	})

	t.Run("author clears image", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(context.Context, uint) (*models.Post, error) { return original(), nil }
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		post, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 5, PostID: 3, Text: "edited", ClearImage: true})
		require.NoError(t, err)
		assert.Empty(t, post.Image)
	})

	t.Run("missing post", func(t *testing.T) {
		repo := noopPostRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		}
		svc := NewPostService(repo, noopGroupRepo(), nil, 10)

		_, err := svc.UpdatePost(ctx, UpdatePostInput{UserID: 5, PostID: 3, Text: "x"})
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestPostService_ListGroupPosts(t *testing.T) {
	repo := noopPostRepo()
	var gotGroup uint
	var gotPerPage int
	repo.listByGroupFn = func(_ context.Context, groupID uint, _ string, perPage int) (*repository.PostPage, error) {
		gotGroup = groupID
		gotPerPage = perPage
		return emptyPostPage(), nil
	}
	groups := noopGroupRepo()
	groups.getBySlugFn = func(_ context.Context, slug string) (*models.Group, error) {
		if slug != "cats" {
			return nil, models.NewNotFoundError("Group", slug)
		}
		return &models.Group{ID: 4, Slug: "cats"}, nil
	}
	svc := NewPostService(repo, groups, nil, 0)

	group, _, err := svc.ListGroupPosts(context.Background(), "cats", "")
	require.NoError(t, err)
	assert.Equal(t, "cats", group.Slug)
	assert.Equal(t, uint(4), gotGroup)
	assert.Equal(t, 10, gotPerPage)

	_, _, err = svc.ListGroupPosts(context.Background(), "dogs", "")
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
