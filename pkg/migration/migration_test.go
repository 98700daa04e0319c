package migration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/pkg/database"
	"github.com/shashiranjanraj/logitrack/pkg/migration"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(db *gorm.DB) error   { return db.AutoMigrate(&widget{}) }
func (createWidgets) Down(db *gorm.DB) error { return db.Migrator().DropTable(&widget{}) }

type failing struct{}

func (failing) Up(*gorm.DB) error   { return errors.New("boom") }
func (failing) Down(*gorm.DB) error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(context.Background(), "sqlite", "file::memory:", database.Pool{MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	runner := migration.New(db, migration.Named{Name: "20240101000000_create_widgets", Migration: createWidgets{}})

	applied, err := runner.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101000000_create_widgets"}, applied)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	applied, err = runner.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 1)
	assert.True(t, status[0].Ran)
	assert.Equal(t, 1, status[0].Batch)

	reverted, err := runner.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101000000_create_widgets"}, reverted)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	pending, err := runner.Pending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRun_StopsOnFailure(t *testing.T) {
	db := openDB(t)
	runner := migration.New(db,
		migration.Named{Name: "20240101000000_create_widgets", Migration: createWidgets{}},
		migration.Named{Name: "20240101000001_broken", Migration: failing{}},
	)

	applied, err := runner.Run(context.Background())
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"20240101000000_create_widgets"}, applied)
}

func TestRollback_UnknownMigration(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	_, err := migration.New(db, migration.Named{Name: "a", Migration: createWidgets{}}).Run(ctx)
	require.NoError(t, err)

	_, err = migration.New(db).Rollback(ctx)
	assert.ErrorIs(t, err, migration.ErrNotRegistered)
}
