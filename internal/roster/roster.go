// Package roster answers which platoon is on duty for a date and shift.
//
// A Rotation computes the answer from a repeating pattern, a TableProvider
// reads stored overrides, and Chain layers providers so stored days win.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// Provider looks up duty platoons.
type Provider interface {
	// PlatoonOnDuty returns the platoon on duty, or "" when unknown.
	PlatoonOnDuty(ctx context.Context, date civil.Date, shift models.ShiftType) (string, error)

	// Range returns one RosterDay per date in [from, to].
	Range(ctx context.Context, from, to civil.Date) ([]models.RosterDay, error)
}

// ErrInvalidRange is returned when to is before from or the range is too long.
var ErrInvalidRange = errors.New("invalid roster range")

// maxRangeDays bounds a single Range call.
const maxRangeDays = 3 * 366

func checkRange(from, to civil.Date) error {
	if to.Before(from) {
		return fmt.Errorf("%w: end is before start", ErrInvalidRange)
	}
	if to.DaysSince(from) > maxRangeDays {
		return fmt.Errorf("%w: %d days exceeds %d", ErrInvalidRange, to.DaysSince(from)+1, maxRangeDays)
	}
	return nil
}

// TableProvider serves stored roster days.
type TableProvider struct {
	store storage.Roster
}

// NewTableProvider creates a provider backed by the roster_days table.
func NewTableProvider(store storage.Roster) *TableProvider {
	return &TableProvider{store: store}
}

func (p *TableProvider) PlatoonOnDuty(ctx context.Context, date civil.Date, shift models.ShiftType) (string, error) {
	day, err := p.store.GetRosterDay(ctx, date)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return day.Platoon(shift), nil
}

// Range returns stored days only; dates without a row are omitted.
func (p *TableProvider) Range(ctx context.Context, from, to civil.Date) ([]models.RosterDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return p.store.ListRosterDays(ctx, from, to)
}

// Chain asks each provider in order. The first non-empty answer wins and
// errors fall through to the next provider.
type Chain []Provider

func (c Chain) PlatoonOnDuty(ctx context.Context, date civil.Date, shift models.ShiftType) (string, error) {
	var firstErr error
	for _, p := range c {
		platoon, err := p.PlatoonOnDuty(ctx, date, shift)
		if err != nil {
			slog.Debug("Roster provider failed", "date", date, "shift", shift, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if platoon != "" {
			return platoon, nil
		}
	}
	return "", firstErr
}

// Range merges provider answers per date, filling empty platoons from later
// providers. Every date in the range is present in the result.
func (c Chain) Range(ctx context.Context, from, to civil.Date) ([]models.RosterDay, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	n := to.DaysSince(from) + 1
	days := make([]models.RosterDay, n)
	for i := range days {
		days[i].Date = from.AddDays(i)
	}

	var firstErr error
	answered := false
	for _, p := range c {
		got, err := p.Range(ctx, from, to)
		if err != nil {
			slog.Debug("Roster provider failed", "from", from, "to", to, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		answered = true
		for _, d := range got {
			i := d.Date.DaysSince(from)
			if i < 0 || i >= n {
				continue
			}
			if days[i].DayPlatoon == "" {
				days[i].DayPlatoon = d.DayPlatoon
			}
			if days[i].NightPlatoon == "" {
				days[i].NightPlatoon = d.NightPlatoon
			}
		}
	}
	if !answered && firstErr != nil {
		return nil, firstErr
	}
	return days, nil
}

// Seed writes the provider's answers for [from, to] into the store and
// returns how many days were written.
func Seed(ctx context.Context, store storage.Roster, p Provider, from, to civil.Date) (int, error) {
	days, err := p.Range(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to compute roster: %w", err)
	}
	if err := store.UpsertRosterDays(ctx, days); err != nil {
		return 0, fmt.Errorf("failed to store roster: %w", err)
	}
	return len(days), nil
}
