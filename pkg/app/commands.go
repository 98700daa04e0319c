package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/database/migrations"
	"github.com/shashiranjanraj/logitrack/database/seeders"
	"github.com/shashiranjanraj/logitrack/pkg/logger"
	"github.com/shashiranjanraj/logitrack/pkg/migration"
)

// Migrator returns the migration runner for db.
func Migrator(db *gorm.DB) *migration.Runner {
	return migration.New(db, migrations.All()...)
}

// Seed runs the boot seeders against db.
func Seed(ctx context.Context, db *gorm.DB, managerEmail, managerPassword string) error {
	return seeders.Run(ctx, db, seeders.Default(managerEmail, managerPassword))
}

// Initialize prepares the database before traffic is served: it applies
// pending migrations, then ensures the Manager role, the default manager
// account and a sample inventory item exist.
func (a *Application) Initialize(ctx context.Context) error {
	applied, err := Migrator(a.DB).Run(ctx)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	if err := Seed(ctx, a.DB, a.Config.ManagerEmail, a.Config.ManagerPassword); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	logger.Info("initialized", "migrations_applied", len(applied))
	return nil
}
