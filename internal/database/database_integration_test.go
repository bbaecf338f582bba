package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// Integration tests for the art store against a real SQLite database.

// setupTestDB creates a test database in a temporary directory.
func setupTestDB(t testing.TB) (db *Database, dbPath string) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath = filepath.Join(tmpDir, "test.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	return db, dbPath
}

func TestNewDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db, dbPath := setupTestDB(t)

	// Verify database file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	if err := db.db.PingContext(context.Background()); err != nil {
		t.Errorf("Database ping failed: %v", err)
	}
}

func TestNewDatabaseReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "reopen.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	// Schema creation must be idempotent across reopens.
	db, err = New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer db.Close()

	if _, _, err := db.FindOriginalByChecksum(context.Background(), 12345); err != nil {
		t.Errorf("Query against reopened database failed: %v", err)
	}
}

func TestNewDatabaseBadPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// Parent directory does not exist; open must fail cleanly.
	if _, err := New(context.Background(), filepath.Join(t.TempDir(), "no", "such", "dir", "art.db")); err == nil {
		t.Error("New() with missing parent directory should fail")
	}
}
