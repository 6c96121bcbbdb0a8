// Package bootstrap brings up the database and Redis connections shared by
// the server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// ApplySchema runs migrations according to DB_SCHEMA_MODE.
	ApplySchema bool
	// SkipRedis leaves the Redis client nil, for tools that never touch it.
	SkipRedis bool
	// Seed fills an empty database with demo data.
	Seed        bool
	SeedOptions seed.Options
}

// InitRuntime connects to DB and Redis. The Redis client is nil when Redis
// is unreachable or skipped.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.ApplySchema {
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return nil, nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	if opts.Seed {
		if err := seedIfEmpty(db, opts.SeedOptions); err != nil {
			return nil, nil, err
		}
	}

	var r *redis.Client
	if !opts.SkipRedis {
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	return db, r, nil
}

// seedIfEmpty seeds only when no users exist, so restarts keep real data.
func seedIfEmpty(db *gorm.DB, opts seed.Options) error {
	var users int64
	if err := db.Table("users").Count(&users).Error; err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return nil
	}
	opts.Clean = false
	if _, err := seed.Seed(db, opts); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return nil
}
