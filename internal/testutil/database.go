package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/database"
)

// SetupTestDB creates an in-memory SQLite database with the production schema applied.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open("file::memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}
