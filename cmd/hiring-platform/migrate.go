package main

import (
	"context"

	"github.com/spf13/cobra"

	"hiring-platform/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigrate(cmd.Context())
	},
}

func runMigrate(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := store.Migrate(ctx, rt.pg.DB); err != nil {
		rt.log.Error("migration failed", map[string]interface{}{"error": err.Error()})
		return err
	}
	rt.log.Info("migration complete", nil)
	return nil
}
