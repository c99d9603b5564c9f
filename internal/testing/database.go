package testing

import (
	"database/sql"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/cuebit/db"
)

// CreateTestDB creates an in-memory SQLite database with every migration applied.
// Automatically registers cleanup via t.Cleanup().
func CreateTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.OpenWithMigrations(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

// CreateFileTestDB creates a migrated SQLite database file in t.TempDir().
// Use it when a test needs several pooled connections, e.g. concurrent writers.
func CreateFileTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()

	path := t.TempDir() + "/cuebit-test.db"
	conn, err := db.OpenWithMigrations(path, nil)
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", path, err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return conn, path
}

// TestLogger returns a logger that writes through t.Log at debug level.
func TestLogger(t *testing.T) *zap.SugaredLogger {
	t.Helper()
	return zaptest.NewLogger(t).Sugar()
}
