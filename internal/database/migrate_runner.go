package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"yatube/internal/middleware"

	"gorm.io/gorm"
)

// MigrationLog is one row of migration_logs.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationLog) TableName() string {
	return "migration_logs"
}

// Accepted by both PostgreSQL and SQLite.
const migrationLogDDL = `CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

func appliedVersions(ctx context.Context, db *gorm.DB) ([]int, error) {
	var versions []int
	err := db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error
	if err != nil {
		if isMissingTableError(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("read migration log: %w", err)
	}
	return versions, nil
}

func isMissingTableError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "no such table") ||
		(strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist"))
}

// pendingMigrations returns registered migrations missing from applied. A
// logged version this build does not ship is an error.
func pendingMigrations(applied []int, registered []Migration) ([]Migration, error) {
	known := make(map[int]bool, len(registered))
	for _, m := range registered {
		known[m.Version] = true
	}
	logged := make(map[int]bool, len(applied))
	var unknown []string
	for _, v := range applied {
		logged[v] = true
		if !known[v] {
			unknown = append(unknown, fmt.Sprintf("%06d", v))
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("migration_logs has versions this build does not know: %s", strings.Join(unknown, ", "))
	}

	var pending []Migration
	for _, m := range registered {
		if !logged[m.Version] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// RunMigrations applies every pending embedded migration in version order.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return runMigrations(ctx, db, GetMigrations())
}

// runMigrations applies each pending script and its log row in one
// transaction, so a failed script leaves no record behind.
func runMigrations(ctx context.Context, db *gorm.DB, registered []Migration) error {
	if err := db.WithContext(ctx).Exec(migrationLogDDL).Error; err != nil {
		return fmt.Errorf("create migration log: %w", err)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	pending, err := pendingMigrations(applied, registered)
	if err != nil {
		return err
	}

	for _, m := range pending {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return err
			}
			return tx.Create(&MigrationLog{Version: m.Version, Name: m.Name}).Error
		})
		if err != nil {
			return fmt.Errorf("apply migration %s: %w", m.String(), err)
		}
		middleware.Logger.InfoContext(ctx, "migration applied", slog.String("migration", m.String()))
	}
	return nil
}

// RollbackMigration runs the down script of an applied migration.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	return rollback(ctx, db, GetMigrations(), version)
}

// RollbackLatest reverts the newest applied migration. It returns (nil, nil)
// when the log is empty.
func RollbackLatest(ctx context.Context, db *gorm.DB) (*Migration, error) {
	return rollbackLatest(ctx, db, GetMigrations())
}

func rollbackLatest(ctx context.Context, db *gorm.DB, registered []Migration) (*Migration, error) {
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}
	if len(applied) == 0 {
		return nil, nil
	}
	latest := applied[len(applied)-1]
	if err := rollback(ctx, db, registered, latest); err != nil {
		return nil, err
	}
	return findMigration(registered, latest), nil
}

func rollback(ctx context.Context, db *gorm.DB, registered []Migration, version int) error {
	m := findMigration(registered, version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	if !containsVersion(applied, version) {
		return fmt.Errorf("migration %s has not been applied", m.String())
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return err
		}
		return tx.Where("version = ?", version).Delete(&MigrationLog{}).Error
	})
	if err != nil {
		return fmt.Errorf("roll back migration %s: %w", m.String(), err)
	}
	middleware.Logger.InfoContext(ctx, "migration rolled back", slog.String("migration", m.String()))
	return nil
}

func containsVersion(versions []int, version int) bool {
	for _, v := range versions {
		if v == version {
			return true
		}
	}
	return false
}
