package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"yatube/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is set on every seeded account.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db      *gorm.DB
	faker   *gofakeit.Faker
	rnd     *rand.Rand
	maxDays int
	hash    string
}

// NewFactory creates a Factory bound to db. A zero seed picks one from the clock.
func NewFactory(db *gorm.DB, seed int64, maxDays int) (*Factory, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if maxDays <= 0 {
		maxDays = 90
	}
	// One hash for every account keeps large seeds fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}
	return &Factory{
		db:      db,
		faker:   gofakeit.New(seed),
		rnd:     rand.New(rand.NewSource(seed)),
		maxDays: maxDays,
		hash:    string(hash),
	}, nil
}

// pastTime returns a moment spread over the last maxDays days.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.rnd.Intn(f.maxDays))*24*time.Hour +
		time.Duration(f.rnd.Intn(24))*time.Hour +
		time.Duration(f.rnd.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser persists a user with a unique username.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	username := strings.ToLower(fmt.Sprintf("%s_%s%d", first, last, f.rnd.Intn(10000)))
	username = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\'' {
			return -1
		}
		return r
	}, username)

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  f.hash,
		FirstName: first,
		LastName:  last,
		CreatedAt: f.pastTime(),
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreateGroup persists a group, reusing an existing row with the same slug.
func (f *Factory) CreateGroup(overrides ...func(*models.Group)) (*models.Group, error) {
	title := f.faker.HipsterWord() + " " + f.faker.Noun()
	group := &models.Group{
		Title:       strings.ToUpper(title[:1]) + title[1:],
		Slug:        fmt.Sprintf("%s-%d", strings.ToLower(f.faker.Noun()), f.rnd.Intn(100000)),
		Description: f.faker.Sentence(12),
	}
	for _, override := range overrides {
		override(group)
	}

	err := f.db.Where(models.Group{Slug: group.Slug}).
		Attrs(models.Group{Title: group.Title, Description: group.Description}).
		FirstOrCreate(group).Error
	if err != nil {
		return nil, fmt.Errorf("create group %s: %w", group.Slug, err)
	}
	return group, nil
}

// BuildPost constructs an unsaved post by author, filed under one of groups
// about two times out of three.
func (f *Factory) BuildPost(author *models.User, groups []models.Group, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Text:      f.faker.Paragraph(1, f.rnd.Intn(4)+1, 12, "\n"),
		AuthorID:  author.ID,
		CreatedAt: f.pastTime(),
	}
	if len(groups) > 0 && f.rnd.Intn(3) > 0 {
		id := groups[f.rnd.Intn(len(groups))].ID
		post.GroupID = &id
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists posts in chunks.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	return f.db.Omit("Author", "Group").CreateInBatches(posts, 100).Error
}

// CreateComment persists a comment by author on post, dated after the post.
func (f *Factory) CreateComment(author *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	created := post.CreatedAt.Add(time.Duration(f.rnd.Intn(72*60)+1) * time.Minute)
	if created.After(time.Now()) {
		created = time.Now()
	}
	comment := &models.Comment{
		Text:      f.faker.Sentence(f.rnd.Intn(15) + 3),
		AuthorID:  author.ID,
		PostID:    post.ID,
		CreatedAt: created,
	}
	for _, override := range overrides {
		override(comment)
	}
	if err := f.db.Omit("Author", "Post").Create(comment).Error; err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CreateFollow subscribes user to author. Self edges are skipped and an
// existing edge is left in place.
func (f *Factory) CreateFollow(user, author *models.User) error {
	if user.ID == author.ID {
		return nil
	}
	follow := &models.Follow{UserID: user.ID, AuthorID: author.ID}
	return f.db.Omit("User", "Author").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(follow).Error
}
