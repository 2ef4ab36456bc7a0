package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migration directions accepted by Migrate.
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// seams for tests
var (
	gooseUp     = goose.UpContext
	gooseDown   = goose.DownContext
	gooseStatus = goose.StatusContext
)

// Migrate applies the embedded schema migrations in the given direction.
func Migrate(ctx context.Context, db *sql.DB, direction string) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	var err error
	switch direction {
	case MigrateUp:
		err = gooseUp(ctx, db, migrationsDir)
	case MigrateDown:
		err = gooseDown(ctx, db, migrationsDir)
	case MigrateStatus:
		err = gooseStatus(ctx, db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	if err != nil {
		return fmt.Errorf("running migrations %s: %w", direction, err)
	}
	return nil
}
