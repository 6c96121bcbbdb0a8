// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// newestFirst is the listing order shared by every post page. The id tiebreak
// keeps pages stable when several posts share a timestamp.
const newestFirst = "posts.created_at DESC, posts.id DESC"

// PostPage is one page of a post listing.
type PostPage = pagination.Page[models.Post]

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, page string, perPage int) (*PostPage, error)
	ListByGroup(ctx context.Context, groupID uint, page string, perPage int) (*PostPage, error)
	ListByAuthor(ctx context.Context, authorID uint, page string, perPage int) (*PostPage, error)
	Feed(ctx context.Context, userID uint, page string, perPage int) (*PostPage, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Update writes the editable fields only; author and timestamps never change.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", post.ID).
		Updates(map[string]interface{}{
			"text":     post.Text,
			"group_id": post.GroupID,
			"image":    post.Image,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) List(ctx context.Context, page string, perPage int) (*PostPage, error) {
	return r.paginate(ctx, r.listing(), page, perPage)
}

func (r *postRepository) ListByGroup(ctx context.Context, groupID uint, page string, perPage int) (*PostPage, error) {
	return r.paginate(ctx, r.listing().Where("posts.group_id = ?", groupID), page, perPage)
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, page string, perPage int) (*PostPage, error) {
	return r.paginate(ctx, r.listing().Where("posts.author_id = ?", authorID), page, perPage)
}

// Feed lists posts written by authors that userID follows.
func (r *postRepository) Feed(ctx context.Context, userID uint, page string, perPage int) (*PostPage, error) {
	q := r.listing().
		Joins("JOIN follows ON follows.author_id = posts.author_id").
		Where("follows.user_id = ?", userID)
	return r.paginate(ctx, q, page, perPage)
}

func (r *postRepository) listing() *gorm.DB {
	return r.db.Model(&models.Post{}).Order(newestFirst)
}

func (r *postRepository) paginate(ctx context.Context, q *gorm.DB, page string, perPage int) (*PostPage, error) {
	p, err := pagination.Paginate[models.Post](ctx, q, page, perPage, withPostRelations)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return p, nil
}

func withPostRelations(q *gorm.DB) *gorm.DB {
	return q.Preload("Author").Preload("Group")
}
