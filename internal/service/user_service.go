package service

import (
	"context"
	"errors"
	"strings"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
	"yatube/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Authenticate for any login failure.
var ErrInvalidCredentials = models.NewValidationError(
	"Please enter a correct username and password. Note that both fields may be case-sensitive.",
)

type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	perPage    int
	bcryptCost int
}

type SignupInput struct {
	FirstName       string
	LastName        string
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Profile is an author page as seen by one viewer.
type Profile struct {
	Author         *models.User
	Posts          *repository.PostPage
	FollowerCount  int64
	FollowingCount int64
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	perPage int,
) *UserService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		perPage:    perPage,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns accounts ordered by username.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.List(ctx, limit, offset)
}

// Signup validates the form, hashes the password and creates the account.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewFieldError("username", err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewFieldError("email", err.Error())
	}
	if in.Password != in.PasswordConfirm {
		return nil, models.NewFieldError("password2", "The two password fields didn't match.")
	}
	if err := validation.ValidatePassword(in.Password, in.Username); err != nil {
		return nil, models.NewFieldError("password2", err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Password:  string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		if errors.Is(cmpErr, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, models.NewInternalError(cmpErr)
	}
	return user, nil
}

// GetProfile loads an author's posts and follower counts.
func (s *UserService) GetProfile(ctx context.Context, username, page string) (*Profile, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.ListByAuthor(ctx, author.ID, page, s.perPage)
	if err != nil {
		return nil, err
	}

	profile := &Profile{Author: author, Posts: posts}
	if profile.FollowerCount, err = s.followRepo.CountFollowers(ctx, author.ID); err != nil {
		return nil, err
	}
	if profile.FollowingCount, err = s.followRepo.CountFollowing(ctx, author.ID); err != nil {
		return nil, err
	}
	return profile, nil
}
