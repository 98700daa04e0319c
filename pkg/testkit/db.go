package testkit

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/logitrack/database/migrations"
	"github.com/shashiranjanraj/logitrack/pkg/database"
	"github.com/shashiranjanraj/logitrack/pkg/migration"
)

// NewDB opens a private in-memory sqlite database with every migration
// applied. The pool holds a single connection so the database lives as long
// as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", "file::memory:", database.Pool{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("testkit: open sqlite: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if _, err := migration.New(db, migrations.All()...).Run(ctx); err != nil {
		t.Fatalf("testkit: migrate: %v", err)
	}
	return db
}
