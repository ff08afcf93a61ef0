// ABOUTME: Tests for database schema creation and migrations
// ABOUTME: Uses in-memory SQLite for fast isolated tests
package db

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestInitSchema(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	if err := InitSchema(db, DialectSQLite); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	for _, table := range []string{"contacts", "activities", "contact_attempts", "schema_migrations"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	indexes := []string{
		"idx_contacts_type",
		"idx_activities_contact",
		"idx_activities_occurred_on",
		"idx_contact_attempts_contact",
	}
	for _, idx := range indexes {
		var indexName string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&indexName)
		if err != nil {
			t.Errorf("Index %s not found: %v", idx, err)
		}
	}
}

func TestInitSchemaRecordsMigrations(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer func() { _ = db.Close() }()
	db.SetMaxOpenConns(1)

	pending, err := PendingMigrations(db, DialectSQLite)
	if err != nil {
		t.Fatalf("PendingMigrations failed: %v", err)
	}
	if len(pending) == 0 {
		t.Fatal("Expected pending migrations on an empty database")
	}

	if err := InitSchema(db, DialectSQLite); err != nil {
		t.Fatalf("InitSchema failed: %v", err)
	}

	pending, err = PendingMigrations(db, DialectSQLite)
	if err != nil {
		t.Fatalf("PendingMigrations failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending migrations after init, got %d", len(pending))
	}

	// Running again must be a no-op
	if err := InitSchema(db, DialectSQLite); err != nil {
		t.Errorf("Second InitSchema failed: %v", err)
	}
}

func TestMigrationsExistForBothDialects(t *testing.T) {
	for _, dialect := range []Dialect{DialectSQLite, DialectPostgres} {
		migrations, err := Migrations(dialect)
		if err != nil {
			t.Fatalf("Migrations(%s) failed: %v", dialect, err)
		}
		if len(migrations) == 0 {
			t.Errorf("No migrations for %s", dialect)
		}
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM contacts WHERE id = ? AND contact_type = ?"

	if got := DialectSQLite.Rebind(query); got != query {
		t.Errorf("SQLite rebind changed query: %s", got)
	}

	want := "SELECT * FROM contacts WHERE id = $1 AND contact_type = $2"
	if got := DialectPostgres.Rebind(query); got != want {
		t.Errorf("Postgres rebind = %q, want %q", got, want)
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a(x);  \n")
	if len(stmts) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %v", len(stmts), stmts)
	}
}
