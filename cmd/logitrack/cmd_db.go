package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/config"
	"github.com/shashiranjanraj/logitrack/pkg/app"
	"github.com/shashiranjanraj/logitrack/pkg/database"
)

// withDB boots config and the database, runs fn and closes the connection.
func withDB(ctx context.Context, fn func(cfg *config.Config, db *gorm.DB) error) error {
	cfg, flush, err := boot(ctx)
	if err != nil {
		return err
	}
	defer flush()

	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN, database.DefaultPool)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	return fn(cfg, db)
}

// logitrack migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(_ *config.Config, db *gorm.DB) error {
			applied, err := app.Migrator(db).Run(ctx)
			for _, name := range applied {
				fmt.Println("migrated:", name)
			}
			return err
		})
	},
}

// logitrack migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(_ *config.Config, db *gorm.DB) error {
			reverted, err := app.Migrator(db).Rollback(ctx)
			if err == nil && len(reverted) == 0 {
				fmt.Println("nothing to roll back")
			}
			for _, name := range reverted {
				fmt.Println("rolled back:", name)
			}
			return err
		})
	},
}

// logitrack migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(_ *config.Config, db *gorm.DB) error {
			statuses, err := app.Migrator(db).Status(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
			for _, s := range statuses {
				ran, batch := "no", "-"
				if s.Ran {
					ran, batch = "yes", fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, ran, batch)
			}
			return w.Flush()
		})
	},
}

// logitrack seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed roles, the default manager and sample inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withDB(ctx, func(cfg *config.Config, db *gorm.DB) error {
			return app.Seed(ctx, db, cfg.ManagerEmail, cfg.ManagerPassword)
		})
	},
}
