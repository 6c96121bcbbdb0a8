package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/validation"
)

// ImageUploader stores an uploaded post image and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, content []byte, contentType string) (string, error)
}

// ImageUpload is a file submitted with a post form.
type ImageUpload struct {
	Content     []byte
	ContentType string
}

type PostService struct {
	postRepo  repository.PostRepository
	groupRepo repository.GroupRepository
	images    ImageUploader
	perPage   int
}

type CreatePostInput struct {
	AuthorID uint
	Text     string
	GroupID  *uint
	Image    *ImageUpload
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Text    string
	GroupID *uint
	Image   *ImageUpload
	// ClearImage drops the current image when no new one is uploaded.
	ClearImage bool
}

func NewPostService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	images ImageUploader,
	perPage int,
) *PostService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		images:    images,
		perPage:   perPage,
	}
}

func (s *PostService) ListPosts(ctx context.Context, page string) (*repository.PostPage, error) {
	return s.postRepo.List(ctx, page, s.perPage)
}

// ListGroupPosts resolves the group by slug and lists its posts.
func (s *PostService) ListGroupPosts(ctx context.Context, slug, page string) (*models.Group, *repository.PostPage, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.postRepo.ListByGroup(ctx, group.ID, page, s.perPage)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

// CreatePost stamps the author from the session and stores the post.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return nil, err
	}

	post := &models.Post{
		Text:     in.Text,
		AuthorID: in.AuthorID,
		GroupID:  in.GroupID,
	}
	if in.Image != nil {
		url, err := s.upload(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		post.Image = url
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()
	return post, nil
}

// UpdatePost edits text, group and image. Only the author may edit; anyone
// else gets an unauthorized error and the post is left untouched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.UserID {
		return post, models.NewUnauthorizedError("Only the author can edit this post")
	}
	if err := s.validate(ctx, in.Text, in.GroupID); err != nil {
		return post, err
	}

	post.Text = in.Text
	post.GroupID = in.GroupID
	switch {
	case in.Image != nil:
		url, err := s.upload(ctx, in.Image)
		if err != nil {
			return post, err
		}
		post.Image = url
	case in.ClearImage:
		post.Image = ""
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post and its comments.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	return s.postRepo.Delete(ctx, id)
}

func (s *PostService) validate(ctx context.Context, text string, groupID *uint) error {
	if err := validation.ValidateText(text); err != nil {
		return models.NewFieldError("text", err.Error())
	}
	if groupID != nil {
		if _, err := s.groupRepo.GetByID(ctx, *groupID); err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return models.NewFieldError("group", "Select a valid choice. That choice is not one of the available choices.")
			}
			return err
		}
	}
	return nil
}

func (s *PostService) upload(ctx context.Context, img *ImageUpload) (string, error) {
	if s.images == nil {
		return "", models.NewFieldError("image", "Image uploads are disabled.")
	}
	return s.images.Upload(ctx, img.Content, img.ContentType)
}
