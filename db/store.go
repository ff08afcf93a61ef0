// ABOUTME: Record store shared by every lifecycle and analytics component
// ABOUTME: Wraps *sql.DB with dialect handling, transactions and time encoding
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/prospect/models"
)

// querier is the subset of *sql.DB and *sql.Tx the store uses.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns all entity state. It is safe for concurrent use; every write is
// a single statement or runs inside WithTx.
type Store struct {
	db      *sql.DB
	q       querier
	dialect Dialect
	now     func() time.Time
}

// NewStore wraps an opened database.
func NewStore(database *sql.DB, dialect Dialect) *Store {
	return &Store{db: database, q: database, dialect: dialect, now: time.Now}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Dialect() Dialect {
	return s.dialect
}

// SetClock overrides the clock used for created_at/updated_at stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn against a store bound to one transaction. Nested calls reuse
// the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, inTx := s.q.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	txStore := &Store{db: s.db, q: tx, dialect: s.dialect, now: s.now}
	if err := fn(txStore); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.q.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.q.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// changes returns the affected-row count of a write.
func changes(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamps are stored as RFC 3339 text in UTC so both dialects agree.
func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func encodeDate(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

func decodeDate(ns sql.NullString) (*models.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := models.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func encodeInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func decodeInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
