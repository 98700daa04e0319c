// Package migration runs and tracks schema migrations.
//
// Migrations are passed to the runner explicitly, in order:
//
//	runner := migration.New(db, migrations.All()...)
//	runner.Run(ctx)       // apply every pending migration as one batch
//	runner.Rollback(ctx)  // reverse the most recent batch
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// Named pairs a migration with its timestamp-prefixed name,
// e.g. "20240101000000_create_orders_table".
type Named struct {
	Name string
	Migration
}

// record is the row stored in the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "logitrack_migrations" }

// ErrNotRegistered is returned by Rollback when the tracking table names a
// migration the runner does not know.
var ErrNotRegistered = errors.New("migration: not registered")

// Status describes one known migration.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db         *gorm.DB
	migrations []Named
}

// New creates a Runner for the given migrations, which must be listed in
// the order they apply.
func New(db *gorm.DB, migrations ...Named) *Runner {
	return &Runner{db: db, migrations: migrations}
}

func (r *Runner) ensureTable(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Pending returns the migrations that have not been applied.
func (r *Runner) Pending(ctx context.Context) ([]Named, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	var pending []Named
	for _, m := range r.migrations {
		if _, ok := ran[m.Name]; !ok {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// Run applies every pending migration in one batch and returns the names it
// applied. Each migration runs in its own transaction with its history row.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	pending, err := r.Pending(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		return nil, nil
	}

	batch, err := r.lastBatch(ctx)
	if err != nil {
		return nil, err
	}
	batch++

	applied := make([]string, 0, len(pending))
	for _, m := range pending {
		logger.Info("migration: running", "name", m.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("migration: %s up: %w", m.Name, err)
			}
			if err := tx.Create(&record{Name: m.Name, Batch: batch}).Error; err != nil {
				return fmt.Errorf("migration: record %s: %w", m.Name, err)
			}
			return nil
		})
		if err != nil {
			return applied, err
		}
		applied = append(applied, m.Name)
	}

	logger.Info("migration: done", "ran", len(applied), "batch", batch)
	return applied, nil
}

// Rollback reverses the most recent batch, newest first, and returns the
// names it rolled back.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	batch, err := r.lastBatch(ctx)
	if err != nil || batch == 0 {
		return nil, err
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", batch).Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load batch %d: %w", batch, err)
	}

	known := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		known[m.Name] = m.Migration
	}

	var reverted []string
	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return reverted, fmt.Errorf("%w: %s", ErrNotRegistered, row.Name)
		}

		logger.Info("migration: rolling back", "name", row.Name)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("migration: %s down: %w", row.Name, err)
			}
			return tx.Delete(&record{}, row.ID).Error
		})
		if err != nil {
			return reverted, err
		}
		reverted = append(reverted, row.Name)
	}
	return reverted, nil
}

// Status reports every known migration in order.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(ctx); err != nil {
		return nil, err
	}
	ran, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.migrations))
	for _, m := range r.migrations {
		row, ok := ran[m.Name]
		out = append(out, Status{Name: m.Name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var batch *int
	err := r.db.WithContext(ctx).Model(&record{}).Select("MAX(batch)").Scan(&batch).Error
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	if batch == nil {
		return 0, nil
	}
	return *batch, nil
}
