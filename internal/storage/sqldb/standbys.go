package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

const standbyColumns = `id, owner_id, person_name, home_platoon, duty_platoon, shift_date, shift_type,
	worked_for_me, notes, settled, settled_at, settlement_group_id, deleted_at, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanStandby(row scanner) (models.StandbyEvent, error) {
	var (
		ev                   models.StandbyEvent
		home, duty, group    sql.NullString
		date, shiftType      string
		settledAt, deletedAt sql.NullInt64
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&ev.ID,
		&ev.OwnerID,
		&ev.PersonName,
		&home,
		&duty,
		&date,
		&shiftType,
		&ev.WorkedForMe,
		&ev.Notes,
		&ev.Settled,
		&settledAt,
		&group,
		&deletedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return ev, err
	}

	ev.ShiftDate, err = civil.ParseDate(date)
	if err != nil {
		return ev, fmt.Errorf("invalid shift_date %q on %s: %w", date, ev.ID, err)
	}
	ev.HomePlatoon = home.String
	ev.DutyPlatoon = duty.String
	ev.ShiftType = models.ShiftType(shiftType)
	ev.SettledAt = fromNullMillis(settledAt)
	ev.SettlementGroupID = group.String
	ev.DeletedAt = fromNullMillis(deletedAt)
	ev.CreatedAt = fromMillis(createdAt)
	ev.UpdatedAt = fromMillis(updatedAt)
	return ev, nil
}

func collectStandbys(rows *sql.Rows) ([]models.StandbyEvent, error) {
	defer rows.Close()

	var out []models.StandbyEvent
	for rows.Next() {
		ev, err := scanStandby(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standby: %w", err)
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate standbys: %w", err)
	}
	return out, nil
}

// ListStandbys returns the owner's standbys matching f.
func (s *Store) ListStandbys(ctx context.Context, ownerID string, f storage.Filter) ([]models.StandbyEvent, error) {
	where := []string{"owner_id = ?"}
	args := []any{ownerID}

	if f.Deleted != nil {
		if *f.Deleted {
			where = append(where, "deleted_at IS NOT NULL")
		} else {
			where = append(where, "deleted_at IS NULL")
		}
	}
	if f.Settled != nil {
		where = append(where, "settled = ?")
		args = append(args, *f.Settled)
	}
	if f.WorkedForMe != nil {
		where = append(where, "worked_for_me = ?")
		args = append(args, *f.WorkedForMe)
	}
	if f.DateAfter != nil {
		where = append(where, "shift_date > ?")
		args = append(args, f.DateAfter.String())
	}
	if f.DateFrom != nil {
		where = append(where, "shift_date >= ?")
		args = append(args, f.DateFrom.String())
	}
	if f.DateTo != nil {
		where = append(where, "shift_date <= ?")
		args = append(args, f.DateTo.String())
	}
	if f.GroupID != "" {
		where = append(where, "settlement_group_id = ?")
		args = append(args, f.GroupID)
	}

	order := storage.OrderShiftDate
	if f.OrderBy.Valid() {
		order = f.OrderBy
	}
	dir := "DESC"
	if f.Ascending {
		dir = "ASC"
	}

	query := fmt.Sprintf("SELECT %s FROM standby_events WHERE %s ORDER BY %s %s, id %s",
		standbyColumns, strings.Join(where, " AND "), order, dir, dir)
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list standbys: %w", err)
	}
	return collectStandbys(rows)
}

// GetStandby retrieves one standby by ID.
func (s *Store) GetStandby(ctx context.Context, ownerID, id string) (*models.StandbyEvent, error) {
	row := s.queryRow(ctx,
		"SELECT "+standbyColumns+" FROM standby_events WHERE owner_id = ? AND id = ?",
		ownerID, id,
	)
	ev, err := scanStandby(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("standby %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get standby: %w", err)
	}
	return &ev, nil
}

// GetStandbys retrieves several standbys in one query.
func (s *Store) GetStandbys(ctx context.Context, ownerID string, ids []string) ([]models.StandbyEvent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + standbyColumns + " FROM standby_events WHERE owner_id = ? AND id IN (" + placeholders(len(ids)) + ")"
	args := append([]any{ownerID}, stringArgs(ids)...)

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get standbys: %w", err)
	}
	return collectStandbys(rows)
}

// InsertStandby persists a new standby. ID and timestamps are generated
// when unset.
func (s *Store) InsertStandby(ctx context.Context, ev *models.StandbyEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}
	ev.UpdatedAt = now

	_, err := s.exec(ctx, `
		INSERT INTO standby_events (`+standbyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.OwnerID,
		ev.PersonName,
		nullString(ev.HomePlatoon),
		nullString(ev.DutyPlatoon),
		ev.ShiftDate.String(),
		string(ev.ShiftType),
		ev.WorkedForMe,
		ev.Notes,
		ev.Settled,
		nullMillis(ev.SettledAt),
		nullString(ev.SettlementGroupID),
		nullMillis(ev.DeletedAt),
		millis(ev.CreatedAt),
		millis(ev.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert standby: %w", err)
	}
	return nil
}

// UpdateStandby writes the editable fields of a standby.
func (s *Store) UpdateStandby(ctx context.Context, ev *models.StandbyEvent) error {
	ev.UpdatedAt = time.Now().UTC()

	res, err := s.exec(ctx, `
		UPDATE standby_events
		SET person_name = ?, home_platoon = ?, duty_platoon = ?, shift_date = ?, shift_type = ?,
			worked_for_me = ?, notes = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`,
		ev.PersonName,
		nullString(ev.HomePlatoon),
		nullString(ev.DutyPlatoon),
		ev.ShiftDate.String(),
		string(ev.ShiftType),
		ev.WorkedForMe,
		ev.Notes,
		millis(ev.UpdatedAt),
		ev.OwnerID,
		ev.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update standby: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update standby: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("standby %s: %w", ev.ID, storage.ErrNotFound)
	}
	return nil
}

// SetSettlement writes the settlement fields of all ids in one statement.
func (s *Store) SetSettlement(ctx context.Context, ownerID string, ids []string, st storage.SettlementState) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{
		st.Settled,
		nullMillis(st.SettledAt),
		nullString(st.GroupID),
		millis(time.Now()),
		ownerID,
	}
	args = append(args, stringArgs(ids)...)

	res, err := s.exec(ctx, `
		UPDATE standby_events
		SET settled = ?, settled_at = ?, settlement_group_id = ?, updated_at = ?
		WHERE owner_id = ? AND id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update settlement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to update settlement: %w", err)
	}
	return n, nil
}

// SetDeleted sets or clears deleted_at on all ids in one statement.
func (s *Store) SetDeleted(ctx context.Context, ownerID string, ids []string, at *time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := []any{nullMillis(at), millis(time.Now()), ownerID}
	args = append(args, stringArgs(ids)...)

	res, err := s.exec(ctx, `
		UPDATE standby_events
		SET deleted_at = ?, updated_at = ?
		WHERE owner_id = ? AND id IN (`+placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update deleted_at: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to update deleted_at: %w", err)
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DistinctNames returns names used on live standbys, most recent first.
func (s *Store) DistinctNames(ctx context.Context, ownerID, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	pattern := likeEscaper.Replace(strings.ToLower(strings.TrimSpace(prefix))) + "%"

	rows, err := s.query(ctx, `
		SELECT person_name FROM standby_events
		WHERE owner_id = ? AND deleted_at IS NULL AND LOWER(person_name) LIKE ? ESCAPE '\'
		GROUP BY person_name
		ORDER BY MAX(updated_at) DESC, person_name ASC
		LIMIT ?`,
		ownerID, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate names: %w", err)
	}
	return names, nil
}
