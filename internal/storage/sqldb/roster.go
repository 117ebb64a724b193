package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// UpsertRosterDays writes roster days, replacing existing dates.
func (s *Store) UpsertRosterDays(ctx context.Context, days []models.RosterDay) error {
	if len(days) == 0 {
		return nil
	}
	return s.InTx(ctx, func(tx storage.Store) error {
		txs := tx.(*Store)
		for _, d := range days {
			_, err := txs.exec(ctx, `
				INSERT INTO roster_days (date, day_platoon, night_platoon)
				VALUES (?, ?, ?)
				ON CONFLICT (date) DO UPDATE
				SET day_platoon = excluded.day_platoon, night_platoon = excluded.night_platoon`,
				d.Date.String(), d.DayPlatoon, d.NightPlatoon,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert roster day %s: %w", d.Date, err)
			}
		}
		return nil
	})
}

// GetRosterDay returns the stored roster for one date.
func (s *Store) GetRosterDay(ctx context.Context, date civil.Date) (*models.RosterDay, error) {
	var raw string
	day := &models.RosterDay{}
	err := s.queryRow(ctx,
		"SELECT date, day_platoon, night_platoon FROM roster_days WHERE date = ?",
		date.String(),
	).Scan(&raw, &day.DayPlatoon, &day.NightPlatoon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("roster day %s: %w", date, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get roster day: %w", err)
	}
	day.Date = date
	return day, nil
}

// ListRosterDays returns stored roster days in [from, to] ordered by date.
func (s *Store) ListRosterDays(ctx context.Context, from, to civil.Date) ([]models.RosterDay, error) {
	rows, err := s.query(ctx, `
		SELECT date, day_platoon, night_platoon FROM roster_days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster days: %w", err)
	}
	defer rows.Close()

	var days []models.RosterDay
	for rows.Next() {
		var (
			raw string
			d   models.RosterDay
		)
		if err := rows.Scan(&raw, &d.DayPlatoon, &d.NightPlatoon); err != nil {
			return nil, fmt.Errorf("failed to scan roster day: %w", err)
		}
		if d.Date, err = civil.ParseDate(raw); err != nil {
			return nil, fmt.Errorf("invalid roster date %q: %w", raw, err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roster days: %w", err)
	}
	return days, nil
}
