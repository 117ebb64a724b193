package views

import (
	"cmp"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mmynk/standbys/internal/models"
)

// HistoryItem is one display unit of a history list: a settled pair, or a
// single record with no group.
type HistoryItem struct {
	// GroupID is empty for a single record.
	GroupID string                `json:"group_id,omitempty"`
	Records []models.StandbyEvent `json:"records"`
	// SortKey is the newest settled_at (or deleted_at) of the members.
	SortKey *time.Time `json:"sort_key,omitempty"`
}

// Single reports whether the item holds one ungrouped record.
func (h HistoryItem) Single() bool {
	return h.GroupID == ""
}

// GroupHistory groups the records of a history category. Pairs come first,
// newest first; singles follow, newest first. Members of a pair are ordered
// by shift date, latest first.
func GroupHistory(records []models.StandbyEvent, c Category) []HistoryItem {
	stamp := func(ev models.StandbyEvent) *time.Time {
		if c == HistoryDeleted {
			return ev.DeletedAt
		}
		return ev.SettledAt
	}

	grouped, singles := lo.FilterReject(records, func(ev models.StandbyEvent, _ int) bool {
		return ev.SettlementGroupID != ""
	})

	var pairs []HistoryItem
	for gid, members := range lo.GroupBy(grouped, func(ev models.StandbyEvent) string { return ev.SettlementGroupID }) {
		var newest *time.Time
		for _, m := range members {
			if t := stamp(m); t != nil && (newest == nil || t.After(*newest)) {
				newest = t
			}
		}
		slices.SortStableFunc(members, func(a, b models.StandbyEvent) int {
			return cmp.Or(compareDates(b.ShiftDate, a.ShiftDate), cmp.Compare(b.ID, a.ID))
		})
		pairs = append(pairs, HistoryItem{GroupID: gid, Records: members, SortKey: newest})
	}
	slices.SortFunc(pairs, func(a, b HistoryItem) int {
		return cmp.Or(compareTimes(b.SortKey, a.SortKey), cmp.Compare(b.GroupID, a.GroupID))
	})

	items := lo.Map(singles, func(ev models.StandbyEvent, _ int) HistoryItem {
		return HistoryItem{Records: []models.StandbyEvent{ev}, SortKey: stamp(ev)}
	})
	slices.SortStableFunc(items, func(a, b HistoryItem) int {
		ea, eb := a.Records[0], b.Records[0]
		return cmp.Or(
			compareTimes(b.SortKey, a.SortKey),
			compareDates(eb.ShiftDate, ea.ShiftDate),
			cmp.Compare(eb.ID, ea.ID),
		)
	})

	return append(pairs, items...)
}
