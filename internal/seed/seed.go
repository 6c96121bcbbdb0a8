// Package seed provides database seeding utilities for development and demos.
package seed

import (
	"fmt"
	"log"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// Options configures the seeder.
type Options struct {
	Users        int
	Groups       int
	PostsPerUser int
	Comments     int
	// FollowsPerUser is how many authors each user subscribes to.
	FollowsPerUser int
	MaxDays        int
	Clean          bool
	// RandSeed makes runs reproducible when non-zero.
	RandSeed int64
}

// DefaultOptions is a small but browsable dataset.
func DefaultOptions() Options {
	return Options{
		Users:          20,
		Groups:         5,
		PostsPerUser:   8,
		Comments:       150,
		FollowsPerUser: 4,
		MaxDays:        90,
		Clean:          true,
	}
}

// Result counts what a run created.
type Result struct {
	Users    int
	Groups   int
	Posts    int
	Comments int
	Follows  int
}

// Seed populates db according to opts.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	log.Printf("🌱 Seeding %d users, %d groups, %d posts per user", opts.Users, opts.Groups, opts.PostsPerUser)

	if opts.Clean {
		if err := ClearAll(db); err != nil {
			return nil, fmt.Errorf("clear data: %w", err)
		}
	}

	f, err := NewFactory(db, opts.RandSeed, opts.MaxDays)
	if err != nil {
		return nil, err
	}
	res := &Result{}

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		u, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	res.Users = len(users)
	log.Printf("✓ %d users created", res.Users)

	groups := make([]models.Group, 0, opts.Groups)
	for i := 0; i < opts.Groups; i++ {
		g, err := f.CreateGroup()
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	res.Groups = len(groups)
	log.Printf("✓ %d groups created", res.Groups)

	posts := make([]*models.Post, 0, len(users)*opts.PostsPerUser)
	for _, u := range users {
		for i := 0; i < opts.PostsPerUser; i++ {
			posts = append(posts, f.BuildPost(u, groups))
		}
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	res.Posts = len(posts)
	log.Printf("✓ %d posts created", res.Posts)

	if len(posts) > 0 && len(users) > 0 {
		for i := 0; i < opts.Comments; i++ {
			author := users[f.rnd.Intn(len(users))]
			post := posts[f.rnd.Intn(len(posts))]
			if _, err := f.CreateComment(author, post); err != nil {
				return nil, err
			}
			res.Comments++
		}
	}
	log.Printf("✓ %d comments created", res.Comments)

	if len(users) > 1 {
		for _, u := range users {
			for _, idx := range f.rnd.Perm(len(users))[:min(opts.FollowsPerUser, len(users))] {
				author := users[idx]
				if author.ID == u.ID {
					continue
				}
				if err := f.CreateFollow(u, author); err != nil {
					return nil, fmt.Errorf("create follow: %w", err)
				}
				res.Follows++
			}
		}
	}
	log.Printf("✓ %d follow edges created", res.Follows)

	log.Printf("🎉 Seeding complete. All users have the password: %s", DefaultPassword)
	return res, nil
}

// ClearAll removes every row the seeder can create, children first.
func ClearAll(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	tx := db.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{
		&models.Comment{},
		&models.Follow{},
		&models.Post{},
		&models.Group{},
		&models.User{},
	} {
		if err := tx.Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
