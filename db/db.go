// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite (WAL mode) or Postgres and applies the schema
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects SQL flavour differences between backends.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Rebind rewrites ? placeholders into the dialect's form.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// IsPostgresDSN reports whether dsn names a Postgres server rather than a file.
func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Open opens the store named by dsn: a postgres:// URL or a SQLite file path.
func Open(dsn string) (*Store, error) {
	if IsPostgresDSN(dsn) {
		database, err := OpenPostgres(dsn)
		if err != nil {
			return nil, err
		}
		return NewStore(database, DialectPostgres), nil
	}

	database, err := OpenDatabase(dsn)
	if err != nil {
		return nil, err
	}
	return NewStore(database, DialectSQLite), nil
}

// OpenDatabase opens a SQLite database file, creating parent directories.
func OpenDatabase(path string) (*sql.DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// WAL mode; foreign keys are per connection so they ride on the DSN
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if err := InitSchema(db, DialectSQLite); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenPostgres connects through pgx's database/sql driver and applies the schema.
func OpenPostgres(dsn string) (*sql.DB, error) {
	openMu.Lock()
	db, err := sqlOpen("pgx", dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := InitSchema(db, DialectPostgres); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
