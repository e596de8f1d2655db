// Package testutil provides test helpers for in-memory databases, fixtures
// and assertions.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cashbook/internal/database"
)

// SetupTestDB opens a private in-memory SQLite database with every model
// migrated and no rows. The connection is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(database.Models...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { teardown(t, db) })
	return db
}

// SetupSeededTestDB is SetupTestDB plus the default categories.
func SetupSeededTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db := SetupTestDB(t)
	if err := database.SeedCategories(db); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}
	return db
}

func teardown(t *testing.T, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		t.Errorf("failed to get underlying DB for teardown: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		t.Errorf("failed to close test database: %v", err)
	}
}
