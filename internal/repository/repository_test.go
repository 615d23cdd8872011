package repository

import (
	"path/filepath"
	"testing"

	"domainwatch/internal/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
