package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"yatube/internal/config"
	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// DB_SCHEMA_MODE values. The embedded SQL migrations own the production
// schema; AutoMigrate keeps development databases in step with the models.
const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// SchemaPlan lists the steps ApplySchema takes.
type SchemaPlan struct {
	Mode        string
	Migrations  bool
	AutoMigrate bool
}

// PlanSchema resolves DB_SCHEMA_MODE for cfg. AutoMigrate never touches a
// production database.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode))}
	if plan.Mode == "" {
		plan.Mode = SchemaModeHybrid
	}

	switch plan.Mode {
	case SchemaModeSQL:
		plan.Migrations = true
	case SchemaModeHybrid:
		plan.Migrations = true
		plan.AutoMigrate = !cfg.IsProduction()
	case SchemaModeAuto:
		if cfg.IsProduction() {
			return plan, fmt.Errorf("DB_SCHEMA_MODE=auto is not allowed in %q", cfg.Env)
		}
		plan.AutoMigrate = true
	default:
		return plan, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", cfg.DBSchemaMode)
	}
	return plan, nil
}

// ApplySchema brings the database up to date according to PlanSchema.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}
	if plan.Migrations {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}
	if plan.AutoMigrate {
		middleware.Logger.InfoContext(ctx, "auto-migrating models", slog.String("mode", plan.Mode))
		if err := AutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// MigrationStatus compares the migration log with the embedded migrations.
type MigrationStatus struct {
	Applied []int
	Pending []Migration
}

func GetMigrationStatus(ctx context.Context, db *gorm.DB) (*MigrationStatus, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	pending, err := pendingMigrations(applied, GetMigrations())
	if err != nil {
		return nil, err
	}
	return &MigrationStatus{Applied: applied, Pending: pending}, nil
}
