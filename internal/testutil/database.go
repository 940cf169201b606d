// Package testutil provides shared helpers for tests that need a real database.
package testutil

import (
	"path/filepath"
	"testing"

	"crm-backend/internal/config"
	"crm-backend/internal/database"
)

// NewTestDB opens a migrated SQLite database in a per-test temporary directory.
// The connection is closed automatically when the test ends.
func NewTestDB(t *testing.T) *database.GormDB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Type:   "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "crm_test.db")},
	}, "silent")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.InitSchema(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
