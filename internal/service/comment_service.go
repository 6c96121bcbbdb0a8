package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	perPage     int
}

type CreateCommentInput struct {
	AuthorID uint
	PostID   uint
	Text     string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	perPage int,
) *CommentService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		perPage:     perPage,
	}
}

// CreateComment attaches a comment to an existing post. Author and post come
// from the session and the URL, never from the form.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}
	if err := validation.ValidateText(in.Text); err != nil {
		return nil, models.NewFieldError("text", err.Error())
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		PostID:   in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil
}

// ListComments returns a page of the post's comments, newest first.
func (s *CommentService) ListComments(ctx context.Context, postID uint, page string) (*repository.CommentPage, error) {
	return s.commentRepo.ListByPost(ctx, postID, page, s.perPage)
}
