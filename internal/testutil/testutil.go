package testutil

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"dashboard/internal/auth"
	"dashboard/internal/db"
	"dashboard/internal/models"
)

// Secret is the JWT signing secret used across tests.
const Secret = "test-secret"

// OpenTestDB opens a shared-cache in-memory SQLite database with the
// schema applied and the bootstrap admin/user plus sample records seeded.
// Each test should pass a distinct name so databases don't collide.
// Closed via t.Cleanup.
func OpenTestDB(t *testing.T, name string) *sqlx.DB {
	t.Helper()

	d, err := sqlx.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// A single connection keeps the shared-cache database alive and
	// avoids table-lock errors between concurrent statements.
	d.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = d.Close() })

	if _, err := d.Exec(`PRAGMA foreign_keys=ON`); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	if err := db.Init(d); err != nil {
		t.Fatalf("init test db: %v", err)
	}
	return d
}

// Token returns a signed token for the given user, valid for an hour.
func Token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := auth.Issue(Secret, time.Hour, u)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}
