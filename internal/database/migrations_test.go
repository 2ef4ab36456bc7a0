package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/00001_create_users.sql",
		"migrations/00002_create_clients.sql",
	}, files)

	body, err := fs.ReadFile(migrationsFS, "migrations/00002_create_clients.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "ON DELETE CASCADE")
	assert.Contains(t, string(body), "clients_owner_identification_key")
}

func stubGoose(t *testing.T) *[]string {
	t.Helper()
	origUp, origDown, origStatus := gooseUp, gooseDown, gooseStatus
	t.Cleanup(func() { gooseUp, gooseDown, gooseStatus = origUp, origDown, origStatus })

	var calls []string
	record := func(name string) func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
			calls = append(calls, name+":"+dir)
			return nil
		}
	}
	gooseUp = record("up")
	gooseDown = record("down")
	gooseStatus = func(_ context.Context, _ *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		calls = append(calls, "status:"+dir)
		return nil
	}
	return &calls
}

func TestMigrate_Directions(t *testing.T) {
	calls := stubGoose(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, nil, MigrateUp))
	require.NoError(t, Migrate(ctx, nil, MigrateDown))
	require.NoError(t, Migrate(ctx, nil, MigrateStatus))
	assert.Equal(t, []string{"up:migrations", "down:migrations", "status:migrations"}, *calls)

	assert.ErrorContains(t, Migrate(ctx, nil, "sideways"), "unknown migration direction")
}

func TestMigrate_WrapsError(t *testing.T) {
	stubGoose(t)
	boom := errors.New("boom")
	gooseUp = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error { return boom }

	err := Migrate(context.Background(), nil, MigrateUp)
	assert.ErrorIs(t, err, boom)
}
