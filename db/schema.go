// ABOUTME: Versioned schema migrations embedded per SQL dialect
// ABOUTME: Applies each migration file at most once, tracked in schema_migrations
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const migrationTable = "schema_migrations"

// Migration is one embedded schema file.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the dialect's migrations in apply order.
func Migrations(dialect Dialect) ([]Migration, error) {
	root := path.Join("migrations", string(dialect))
	entries, err := fs.ReadDir(migrationsFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(migrationsFS, path.Join(root, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, Migration{Name: name, SQL: string(content)})
	}
	return migrations, nil
}

// InitSchema applies all pending migrations.
func InitSchema(db *sql.DB, dialect Dialect) error {
	pending, err := PendingMigrations(db, dialect)
	if err != nil {
		return err
	}

	for _, m := range pending {
		if err := applyMigration(db, dialect, m); err != nil {
			return err
		}
	}
	return nil
}

// PendingMigrations lists migrations not yet recorded in schema_migrations.
func PendingMigrations(db *sql.DB, dialect Dialect) ([]Migration, error) {
	if err := ensureMigrationTable(db); err != nil {
		return nil, err
	}

	all, err := Migrations(dialect)
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, m := range all {
		var count int
		query := dialect.Rebind(`SELECT COUNT(*) FROM ` + migrationTable + ` WHERE name = ?`)
		if err := db.QueryRow(query, m.Name).Scan(&count); err != nil {
			return nil, fmt.Errorf("check migration %s: %w", m.Name, err)
		}
		if count == 0 {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

func ensureMigrationTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
	name TEXT PRIMARY KEY,
	applied_at BIGINT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func applyMigration(db *sql.DB, dialect Dialect, m Migration) error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", m.Name, err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	for _, stmt := range splitStatements(m.SQL) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}

	insert := dialect.Rebind(`INSERT INTO ` + migrationTable + ` (name, applied_at) VALUES (?, ?)`)
	if _, err := tx.Exec(insert, m.Name, time.Now().Unix()); err != nil {
		return fmt.Errorf("record migration %s: %w", m.Name, err)
	}

	return tx.Commit()
}

// splitStatements breaks a migration file on semicolons. Migration files must
// not contain semicolons inside string literals.
func splitStatements(content string) []string {
	var out []string
	for _, part := range strings.Split(content, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
