// internal/library/testutil_test.go
package library

import (
	"database/sql"
	"testing"

	"github.com/jess-sol/kyoo/internal/migrations"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each connection to :memory: is its own database; keep a single one.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

// ptr is a helper to create pointer to value
func ptr[T any](v T) *T {
	return &v
}

// createTestShow creates a show for episode tests
func createTestShow(t *testing.T, store *Store) *Show {
	t.Helper()
	sh := &Show{Title: "Breaking Bad", StartYear: 2008}
	if err := store.AddShow(t.Context(), sh); err != nil {
		t.Fatalf("create test show: %v", err)
	}
	return sh
}

// createTestProvider creates a provider for external id tests
func createTestProvider(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	id, err := NewProviderStore(db).CreateIfNotExists(t.Context(), Provider{Name: name})
	if err != nil {
		t.Fatalf("create test provider: %v", err)
	}
	return id
}
