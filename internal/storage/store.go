// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/models"
)

// ErrNotFound is returned when a row does not exist for the given owner.
var ErrNotFound = errors.New("not found")

// Store is the record store used by the settlement engine, the roster and
// the auth layer. Every standby and settlement query is scoped by owner.
// Implementations exist for SQLite and PostgreSQL; both share the same SQL.
type Store interface {
	Standbys
	Settlements
	Users
	Roster

	// InTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling InTx on a transactional store runs fn inline.
	InTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any resources held by the store.
	Close() error
}

// Standbys persists standby events.
type Standbys interface {
	// ListStandbys returns the owner's records matching f.
	ListStandbys(ctx context.Context, ownerID string, f Filter) ([]models.StandbyEvent, error)

	// GetStandby returns one record, deleted or not.
	GetStandby(ctx context.Context, ownerID, id string) (*models.StandbyEvent, error)

	// GetStandbys returns the records with the given ids. Missing ids are
	// skipped, so callers compare lengths when every id must exist.
	GetStandbys(ctx context.Context, ownerID string, ids []string) ([]models.StandbyEvent, error)

	// InsertStandby assigns ID and timestamps and persists the record.
	InsertStandby(ctx context.Context, ev *models.StandbyEvent) error

	// UpdateStandby writes the editable fields and notes. Settlement and
	// deletion state are not touched.
	UpdateStandby(ctx context.Context, ev *models.StandbyEvent) error

	// SetSettlement writes the settlement fields of every listed record in
	// one statement and returns the number of rows changed.
	SetSettlement(ctx context.Context, ownerID string, ids []string, st SettlementState) (int64, error)

	// SetDeleted sets or clears (at == nil) deleted_at on the listed records.
	SetDeleted(ctx context.Context, ownerID string, ids []string, at *time.Time) (int64, error)

	// DistinctNames returns up to limit person names starting with prefix,
	// most recently used first.
	DistinctNames(ctx context.Context, ownerID, prefix string, limit int) ([]string, error)
}

// Settlements persists the settlement rows that pair two records.
type Settlements interface {
	CreateSettlement(ctx context.Context, s *models.Settlement) error
	GetSettlement(ctx context.Context, ownerID, id string) (*models.Settlement, error)
	DissolveSettlement(ctx context.Context, ownerID, id string, at time.Time) error
}

// Users persists accounts.
type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Roster persists stored roster days.
type Roster interface {
	UpsertRosterDays(ctx context.Context, days []models.RosterDay) error
	GetRosterDay(ctx context.Context, date civil.Date) (*models.RosterDay, error)
	ListRosterDays(ctx context.Context, from, to civil.Date) ([]models.RosterDay, error)
}

// SettlementState is the value written by SetSettlement. The zero value
// clears a record back to unsettled.
type SettlementState struct {
	Settled   bool
	SettledAt *time.Time
	GroupID   string
}

// Cleared is the state of a record that belongs to no settlement.
var Cleared = SettlementState{}
