package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/standbys/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements storage.Store on a database/sql handle.
type Store struct {
	conn    *sql.DB // nil for the transactional view
	db      DBTX
	dialect Dialect
}

// New wraps an open database. Migrations are the caller's concern.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{conn: db, db: db, dialect: dialect}
}

// DB returns the underlying handle, or nil inside a transaction.
func (s *Store) DB() *sql.DB {
	return s.conn
}

// Dialect returns the SQL dialect the store was built with.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// InTx runs fn inside a transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Store) error) error {
	if s.conn == nil {
		return fn(s)
	}
	err := WithTx(ctx, s.conn, nil, func(ctx context.Context, tx DBTX) error {
		return fn(&Store{db: tx, dialect: s.dialect})
	})
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...)
}

// Timestamps are stored as Unix milliseconds.

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func nullMillis(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

func fromNullMillis(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := fromMillis(v.Int64)
	return &t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
