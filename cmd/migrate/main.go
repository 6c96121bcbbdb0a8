// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"

	"yatube/internal/config"
	"yatube/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|auto|status|down|create-db> [version]")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	cmd := strings.ToLower(strings.TrimSpace(flag.Arg(0)))

	if cmd == "create-db" {
		return createDatabase(ctx, cfg)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch cmd {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Println("sql migrations applied")
	case "auto":
		if cfg.IsProduction() {
			return fmt.Errorf("auto-migrate is not allowed in %q", cfg.Env)
		}
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
		log.Println("automigrations applied")
	case "status":
		plan, err := database.PlanSchema(cfg)
		if err != nil {
			return err
		}
		status, err := database.GetMigrationStatus(ctx, db)
		if err != nil {
			return fmt.Errorf("schema status failed: %w", err)
		}
		log.Printf("mode=%s env=%s migrations=%t automigrate=%t applied=%d pending=%d",
			plan.Mode, cfg.Env, plan.Migrations, plan.AutoMigrate, len(status.Applied), len(status.Pending))
		for _, m := range status.Pending {
			log.Printf("pending: %s", m.String())
		}
	case "down":
		if flag.NArg() < 2 {
			m, err := database.RollbackLatest(ctx, db)
			if err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			if m == nil {
				log.Println("nothing to roll back")
				return nil
			}
			log.Printf("rolled back %s", m.String())
			return nil
		}
		version, err := strconv.Atoi(flag.Arg(1))
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", flag.Arg(1), err)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		log.Printf("rolled back migration %d", version)
	default:
		return usage()
	}

	return nil
}

// createDatabase connects to the maintenance database and creates DB_NAME
// when it does not exist yet.
func createDatabase(ctx context.Context, cfg *config.Config) error {
	maintenance := *cfg
	maintenance.DBName = "postgres"

	conn, err := pgx.Connect(ctx, database.DSN(&maintenance))
	if err != nil {
		return fmt.Errorf("connect maintenance database: %w", err)
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P04" {
		log.Printf("database %q already exists", cfg.DBName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("create database %q: %w", cfg.DBName, err)
	}
	log.Printf("database %q created", cfg.DBName)
	return nil
}
