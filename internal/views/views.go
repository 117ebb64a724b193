// Package views derives the list projections, counters and status sentences
// shown for a snapshot of one owner's standbys. Everything here is a pure
// function of the snapshot and today's date.
package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
)

// Category names a list projection.
type Category string

const (
	OwedToMe          Category = "owed_to_me"
	IOwe              Category = "i_owe"
	UpcomingAgreed    Category = "upcoming_agreed"
	UpcomingRequested Category = "upcoming_requested"
	HistorySettled    Category = "history_settled"
	HistoryDeleted    Category = "history_deleted"
)

// Categories lists every projection in display order.
var Categories = []Category{OwedToMe, IOwe, UpcomingAgreed, UpcomingRequested, HistorySettled, HistoryDeleted}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !lo.Contains(Categories, c) {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// IsHistory reports whether c is grouped by settlement.
func (c Category) IsHistory() bool {
	return c == HistorySettled || c == HistoryDeleted
}

// Matches reports whether ev belongs in category c on today.
//
// Owed and owe lists stop at today; a future shift shows under Upcoming
// until its date arrives, whether settled or not.
func Matches(ev *models.StandbyEvent, c Category, today civil.Date) bool {
	deleted := ev.IsDeleted()
	future := ledger.IsFutureDate(ev.ShiftDate, today)

	switch c {
	case OwedToMe:
		return !deleted && !ev.Settled && !ev.WorkedForMe && !future
	case IOwe:
		return !deleted && !ev.Settled && ev.WorkedForMe && !future
	case UpcomingAgreed:
		return !deleted && !ev.WorkedForMe && future
	case UpcomingRequested:
		return !deleted && ev.WorkedForMe && future
	case HistorySettled:
		return !deleted && ev.Settled
	case HistoryDeleted:
		return deleted
	}
	return false
}

// Project returns the records in category c, sorted the way the list shows
// them.
func Project(records []models.StandbyEvent, c Category, today civil.Date) []models.StandbyEvent {
	out := lo.Filter(records, func(ev models.StandbyEvent, _ int) bool {
		return Matches(&ev, c, today)
	})

	switch c {
	case UpcomingAgreed, UpcomingRequested:
		slices.SortStableFunc(out, func(a, b models.StandbyEvent) int {
			return cmp.Or(compareDates(a.ShiftDate, b.ShiftDate), cmp.Compare(a.ID, b.ID))
		})
	case HistorySettled:
		slices.SortStableFunc(out, func(a, b models.StandbyEvent) int {
			return cmp.Or(compareTimes(b.SettledAt, a.SettledAt), compareDates(b.ShiftDate, a.ShiftDate), cmp.Compare(b.ID, a.ID))
		})
	case HistoryDeleted:
		slices.SortStableFunc(out, func(a, b models.StandbyEvent) int {
			return cmp.Or(compareTimes(b.DeletedAt, a.DeletedAt), cmp.Compare(b.ID, a.ID))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.StandbyEvent) int {
			return cmp.Or(compareDates(b.ShiftDate, a.ShiftDate), cmp.Compare(b.ID, a.ID))
		})
	}
	return out
}

// Position is the overall balance.
type Position struct {
	// OwedToMe counts shifts others owe the owner.
	OwedToMe int `json:"owed_to_me"`
	// IOwe counts shifts the owner owes.
	IOwe int `json:"i_owe"`
}

// Net is positive when the owner is owed more than they owe.
func (p Position) Net() int {
	return p.OwedToMe - p.IOwe
}

// CountPosition counts every live, unsettled record, future dates included.
func CountPosition(records []models.StandbyEvent) Position {
	var p Position
	for i := range records {
		ev := &records[i]
		if ev.IsDeleted() || ev.Settled {
			continue
		}
		if ev.WorkedForMe {
			p.IOwe++
		} else {
			p.OwedToMe++
		}
	}
	return p
}

// StatusText is the label for a record's status pill.
func StatusText(ev *models.StandbyEvent) string {
	switch ledger.Classify(ev) {
	case models.StatusDeleted:
		return "Deleted"
	case models.StatusSettled:
		return "Settled"
	}
	if ev.WorkedForMe {
		return "You owe"
	}
	return "Owed to you"
}

// OverlayDay is one calendar cell: the roster and the live standbys on it.
type OverlayDay struct {
	Date     civil.Date            `json:"date"`
	Roster   models.RosterDay      `json:"roster"`
	Standbys []models.StandbyEvent `json:"standbys"`
}

// Overlay places live records on the roster days they fall on. Days outside
// the roster slice are ignored.
func Overlay(records []models.StandbyEvent, roster []models.RosterDay) []OverlayDay {
	byDate := lo.GroupBy(
		lo.Reject(records, func(ev models.StandbyEvent, _ int) bool { return ev.IsDeleted() }),
		func(ev models.StandbyEvent) civil.Date { return ev.ShiftDate },
	)

	return lo.Map(roster, func(day models.RosterDay, _ int) OverlayDay {
		evs := byDate[day.Date]
		slices.SortStableFunc(evs, func(a, b models.StandbyEvent) int {
			return cmp.Or(cmp.Compare(a.ShiftType, b.ShiftType), cmp.Compare(a.PersonName, b.PersonName))
		})
		if evs == nil {
			evs = []models.StandbyEvent{}
		}
		return OverlayDay{Date: day.Date, Roster: day, Standbys: evs}
	})
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// compareTimes orders nil before any time.
func compareTimes(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
