package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/standbys/internal/config"
	"github.com/mmynk/standbys/internal/storage"
	"github.com/mmynk/standbys/internal/storage/postgres"
	"github.com/mmynk/standbys/internal/storage/sqldb"
	"github.com/mmynk/standbys/internal/storage/sqlite"
)

// appStore is a migrated store that can also be health checked.
type appStore interface {
	storage.Store
	DB() *sql.DB
}

// openStore connects to the configured database and applies migrations.
func openStore(ctx context.Context, cfg *config.Config) (appStore, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return sqlite.New(cfg.DBPath)
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}

// openDB connects without migrating, for the migrate command.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, sqldb.Dialect, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.DBPath)
		return db, sqldb.SQLite, err
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		return db, sqldb.Postgres, err
	}
	return nil, sqldb.Dialect{}, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
}
