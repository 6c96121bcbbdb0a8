package repository

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentPage is one page of a post's comments.
type CommentPage = pagination.Page[models.Comment]

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint, page string, perPage int) (*CommentPage, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint, page string, perPage int) (*CommentPage, error) {
	q := r.db.Model(&models.Comment{}).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC, comments.id DESC")
	p, err := pagination.Paginate[models.Comment](ctx, q, page, perPage, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Author")
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return p, nil
}
