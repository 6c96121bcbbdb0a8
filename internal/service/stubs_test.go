package service

import (
	"context"

	"yatube/internal/models"
	"yatube/internal/pagination"
	"yatube/internal/repository"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
	listFn         func(context.Context, string, int) (*repository.PostPage, error)
	listByGroupFn  func(context.Context, uint, string, int) (*repository.PostPage, error)
	listByAuthorFn func(context.Context, uint, string, int) (*repository.PostPage, error)
	feedFn         func(context.Context, uint, string, int) (*repository.PostPage, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, page string, perPage int) (*repository.PostPage, error) {
	return s.listFn(ctx, page, perPage)
}
func (s *postRepoStub) ListByGroup(ctx context.Context, groupID uint, page string, perPage int) (*repository.PostPage, error) {
	return s.listByGroupFn(ctx, groupID, page, perPage)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, page string, perPage int) (*repository.PostPage, error) {
	return s.listByAuthorFn(ctx, authorID, page, perPage)
}
func (s *postRepoStub) Feed(ctx context.Context, userID uint, page string, perPage int) (*repository.PostPage, error) {
	return s.feedFn(ctx, userID, page, perPage)
}

func emptyPostPage() *repository.PostPage {
	return &pagination.Page[models.Post]{Items: []models.Post{}, Number: 1, NumPages: 1, PerPage: 10}
}

func noopPostRepo() *postRepoStub {
	page := func(context.Context, string, int) (*repository.PostPage, error) { return emptyPostPage(), nil }
	scoped := func(context.Context, uint, string, int) (*repository.PostPage, error) { return emptyPostPage(), nil }
	return &postRepoStub{
		createFn:       func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:      func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		listFn:         page,
		listByGroupFn:  scoped,
		listByAuthorFn: scoped,
		feedFn:         scoped,
	}
}

// groupRepoStub is a stub for repository.GroupRepository.
type groupRepoStub struct {
	getByIDFn   func(context.Context, uint) (*models.Group, error)
	getBySlugFn func(context.Context, string) (*models.Group, error)
	listFn      func(context.Context) ([]models.Group, error)
	createFn    func(context.Context, *models.Group) error
	deleteFn    func(context.Context, uint) error
}

func (s *groupRepoStub) GetByID(ctx context.Context, id uint) (*models.Group, error) {
	return s.getByIDFn(ctx, id)
}
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) List(ctx context.Context) ([]models.Group, error) {
	return s.listFn(ctx)
}
func (s *groupRepoStub) Create(ctx context.Context, group *models.Group) error {
	return s.createFn(ctx, group)
}
func (s *groupRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopGroupRepo() *groupRepoStub {
	return &groupRepoStub{
		getByIDFn:   func(_ context.Context, id uint) (*models.Group, error) { return &models.Group{ID: id}, nil },
		getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) { return &models.Group{ID: 1, Slug: slug}, nil },
		listFn:      func(_ context.Context) ([]models.Group, error) { return nil, nil },
		createFn:    func(_ context.Context, _ *models.Group) error { return nil },
		deleteFn:    func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// usersByName serves GetByUsername from a fixed set; other names are not found.
func usersByName(users ...*models.User) *userRepoStub {
	byName := make(map[string]*models.User, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, models.NewNotFoundError("User", id)
		},
		getByUsernameFn: func(_ context.Context, name string) (*models.User, error) {
			if u, ok := byName[name]; ok {
				return u, nil
			}
			return nil, models.NewNotFoundError("User", name)
		},
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]models.User, error) { return nil, nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	createFn         func(context.Context, uint, uint) (bool, error)
	deleteFn         func(context.Context, uint, uint) (int64, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.createFn(ctx, userID, authorID)
}
func (s *followRepoStub) Delete(ctx context.Context, userID, authorID uint) (int64, error) {
	return s.deleteFn(ctx, userID, authorID)
}
func (s *followRepoStub) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.existsFn(ctx, userID, authorID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	return s.countFollowersFn(ctx, authorID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		deleteFn:         func(_ context.Context, _, _ uint) (int64, error) { return 1, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	listByPostFn func(context.Context, uint, string, int) (*repository.CommentPage, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, page string, perPage int) (*repository.CommentPage, error) {
	return s.listByPostFn(ctx, postID, page, perPage)
}

// imageUploaderStub records uploads and returns a fixed URL.
type imageUploaderStub struct {
	calls int
	url   string
	err   error
}

func (s *imageUploaderStub) Upload(_ context.Context, _ []byte, _ string) (string, error) {
	s.calls++
	return s.url, s.err
}
