package service

import (
	"context"
	"log/slog"

	"yatube/internal/middleware"
	"yatube/internal/observability"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// FollowService manages subscriptions and the personal feed.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	perPage    int
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	perPage int,
) *FollowService {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		postRepo:   postRepo,
		perPage:    perPage,
	}
}

// Follow subscribes userID to the author. Following yourself or an author you
// already follow changes nothing. An unknown author is a not-found error.
func (s *FollowService) Follow(ctx context.Context, userID uint, authorUsername string) (err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Follow")
	defer func() { observability.EndSpan(span, err) }()

	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	if author.ID == userID {
		observability.FollowOperations.WithLabelValues("follow", "self").Inc()
		return nil
	}

	created, err := s.followRepo.Create(ctx, userID, author.ID)
	if err != nil {
		observability.FollowOperations.WithLabelValues("follow", "error").Inc()
		return err
	}
	outcome := "existing"
	if created {
		outcome = "created"
		middleware.Logger.InfoContext(ctx, "user followed author",
			slog.Uint64("author_id", uint64(author.ID)),
		)
	}
	observability.FollowOperations.WithLabelValues("follow", outcome).Inc()
	return nil
}

// Unfollow removes the subscription if there is one.
func (s *FollowService) Unfollow(ctx context.Context, userID uint, authorUsername string) (err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Unfollow")
	defer func() { observability.EndSpan(span, err) }()

	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return err
	}
	removed, err := s.followRepo.Delete(ctx, userID, author.ID)
	if err != nil {
		observability.FollowOperations.WithLabelValues("unfollow", "error").Inc()
		return err
	}
	outcome := "missing"
	if removed > 0 {
		outcome = "deleted"
	}
	observability.FollowOperations.WithLabelValues("unfollow", outcome).Inc()
	return nil
}

// Feed lists posts by the authors userID follows, newest first.
func (s *FollowService) Feed(ctx context.Context, userID uint, page string) (p *repository.PostPage, err error) {
	ctx, span := observability.StartSpan(ctx, "FollowService", "Feed")
	defer func() { observability.EndSpan(span, err) }()

	return s.postRepo.Feed(ctx, userID, page, s.perPage)
}

// IsFollowing reports whether userID follows authorID. Anonymous viewers follow nobody.
func (s *FollowService) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	if userID == 0 || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}
