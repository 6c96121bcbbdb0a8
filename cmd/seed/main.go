// Command seed fills the database with demo users, groups, posts, comments
// and follow edges.
package main

import (
	"context"
	"flag"
	"log"

	"yatube/internal/bootstrap"
	"yatube/internal/config"
	"yatube/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	defaults := seed.DefaultOptions()

	users := flag.Int("users", defaults.Users, "Number of users to create")
	groups := flag.Int("groups", defaults.Groups, "Number of groups to create")
	posts := flag.Int("posts", defaults.PostsPerUser, "Posts per user")
	comments := flag.Int("comments", defaults.Comments, "Total comments to create")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Authors each user follows")
	days := flag.Int("days", defaults.MaxDays, "Spread post dates over this many days")
	clean := flag.Bool("clean", defaults.Clean, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(context.Background(), cfg, bootstrap.Options{
		ApplySchema: true,
		SkipRedis:   true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		Users:          *users,
		Groups:         *groups,
		PostsPerUser:   *posts,
		Comments:       *comments,
		FollowsPerUser: *follows,
		MaxDays:        *days,
		Clean:          *clean,
		RandSeed:       *randSeed,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done: %d users, %d groups, %d posts, %d comments, %d follows",
		res.Users, res.Groups, res.Posts, res.Comments, res.Follows)
}
