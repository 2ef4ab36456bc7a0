package main

import (
	"context"
	"errors"

	"clientback/internal/config"
	"clientback/internal/database"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.MigrateUp
			if len(args) == 1 {
				direction = args[0]
			}
			return runMigrate(cmd.Context(), opts.cfg, direction)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, direction string) error {
	if cfg.Database.Driver != config.DriverPostgres {
		return errors.New("migrations require the postgres driver")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return database.Migrate(ctx, db.DB, direction)
}
