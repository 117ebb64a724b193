// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mmynk/standbys/internal/storage"
	"github.com/mmynk/standbys/internal/storage/migrations"
	"github.com/mmynk/standbys/internal/storage/sqldb"
)

var _ storage.Store = (*PostgresStore)(nil)

// PostgresStore implements storage.Store using PostgreSQL.
type PostgresStore struct {
	*sqldb.Store
}

// New connects to dsn and applies pending migrations.
func New(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	results, err := migrations.Up(ctx, db, sqldb.Postgres.Goose)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, r := range results {
		slog.Debug("Applied migration", "driver", "postgres", "version", r.Source.Version, "duration", r.Duration)
	}

	return NewWithDB(db), nil
}

// NewWithDB wraps an already migrated database.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{Store: sqldb.New(db, sqldb.Postgres)}
}

// Open opens and pings the database without migrating it.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}
