package views

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/standbys/internal/models"
)

var today = civil.Date{Year: 2025, Month: time.March, Day: 10}

func at(hour int) *time.Time {
	t := time.Date(2025, time.March, 10, hour, 0, 0, 0, time.UTC)
	return &t
}

func rec(id string, daysFromToday int, workedForMe bool) models.StandbyEvent {
	return models.StandbyEvent{
		ID:          id,
		PersonName:  "Jane Doe",
		ShiftDate:   today.AddDays(daysFromToday),
		ShiftType:   models.ShiftDay,
		WorkedForMe: workedForMe,
	}
}

func ids(records []models.StandbyEvent) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestProject(t *testing.T) {
	owedOld := rec("owed-old", -10, false)
	owedNew := rec("owed-new", -1, false)
	owedToday := rec("owed-today", 0, false)
	oweOld := rec("owe-old", -5, true)
	futureAgreed := rec("future-agreed", 3, false)
	futureAgreedSettled := rec("future-agreed-settled", 1, false)
	futureAgreedSettled.Settled, futureAgreedSettled.SettledAt, futureAgreedSettled.SettlementGroupID = true, at(1), "g"
	futureRequested := rec("future-requested", 2, true)
	settled := rec("settled", -20, true)
	settled.Settled, settled.SettledAt, settled.SettlementGroupID = true, at(2), "g"
	deletedSettled := rec("deleted-settled", -3, false)
	deletedSettled.Settled, deletedSettled.SettledAt, deletedSettled.DeletedAt = true, at(3), at(4)
	deletedFuture := rec("deleted-future", 4, true)
	deletedFuture.DeletedAt = at(5)

	all := []models.StandbyEvent{
		owedOld, owedNew, owedToday, oweOld, futureAgreed, futureAgreedSettled,
		futureRequested, settled, deletedSettled, deletedFuture,
	}

	tests := []struct {
		category Category
		want     []string
	}{
		{OwedToMe, []string{"owed-today", "owed-new", "owed-old"}},
		{IOwe, []string{"owe-old"}},
		{UpcomingAgreed, []string{"future-agreed-settled", "future-agreed"}},
		{UpcomingRequested, []string{"future-requested"}},
		{HistorySettled, []string{"settled", "future-agreed-settled"}},
		{HistoryDeleted, []string{"deleted-future", "deleted-settled"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			got := ids(Project(all, tt.category, today))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Project(%s) mismatch (-want +got):\n%s", tt.category, diff)
			}
		})
	}
}

func TestDeletedNeverInActiveProjections(t *testing.T) {
	var records []models.StandbyEvent
	for i, offset := range []int{-3, 0, 3} {
		for _, worked := range []bool{true, false} {
			for _, settled := range []bool{true, false} {
				r := rec(string(rune('a'+i))+boolID(worked)+boolID(settled), offset, worked)
				r.Settled = settled
				r.DeletedAt = at(1)
				records = append(records, r)
			}
		}
	}

	for _, c := range []Category{OwedToMe, IOwe, UpcomingAgreed, UpcomingRequested, HistorySettled} {
		assert.Empty(t, Project(records, c, today), "category %s", c)
	}
	assert.Len(t, Project(records, HistoryDeleted, today), len(records))
}

func boolID(b bool) string {
	if b {
		return "t"
	}
	return "f"
}

func TestFutureAgreedShowsUnderUpcomingOnly(t *testing.T) {
	r := rec("next-week", 7, false)
	assert.True(t, Matches(&r, UpcomingAgreed, today))
	assert.False(t, Matches(&r, OwedToMe, today))

	// Once the date arrives it moves to the owed list.
	assert.True(t, Matches(&r, OwedToMe, today.AddDays(7)))
	assert.False(t, Matches(&r, UpcomingAgreed, today.AddDays(7)))
}

func TestCountPosition(t *testing.T) {
	settled := rec("s", -1, true)
	settled.Settled = true
	deleted := rec("d", -1, false)
	deleted.DeletedAt = at(1)

	p := CountPosition([]models.StandbyEvent{
		rec("a", -1, false),
		rec("b", 5, false),
		rec("c", -2, true),
		settled,
		deleted,
	})
	assert.Equal(t, Position{OwedToMe: 2, IOwe: 1}, p)
	assert.Equal(t, 1, p.Net())
}

func TestGroupHistory(t *testing.T) {
	pairOldA := rec("p1a", -30, true)
	pairOldB := rec("p1b", -20, false)
	for _, r := range []*models.StandbyEvent{&pairOldA, &pairOldB} {
		r.Settled, r.SettledAt, r.SettlementGroupID = true, at(1), "g1"
	}
	pairNewA := rec("p2a", -10, true)
	pairNewB := rec("p2b", -5, false)
	for _, r := range []*models.StandbyEvent{&pairNewA, &pairNewB} {
		r.Settled, r.SettledAt, r.SettlementGroupID = true, at(6), "g2"
	}
	single := rec("single", -1, true)
	single.Settled, single.SettledAt = true, at(9)

	items := GroupHistory([]models.StandbyEvent{pairOldA, single, pairNewA, pairOldB, pairNewB}, HistorySettled)
	require.Len(t, items, 3)

	assert.Equal(t, "g2", items[0].GroupID)
	assert.Equal(t, []string{"p2b", "p2a"}, ids(items[0].Records))
	assert.Equal(t, "g1", items[1].GroupID)
	assert.True(t, items[2].Single())
	assert.Equal(t, "single", items[2].Records[0].ID)
}

func TestGroupHistory_DeletedUsesDeletedAt(t *testing.T) {
	a := rec("a", -3, false)
	a.DeletedAt = at(1)
	b := rec("b", -30, false)
	b.DeletedAt = at(8)
	c := rec("c", -2, false)

	items := GroupHistory([]models.StandbyEvent{a, b, c}, HistoryDeleted)
	require.Len(t, items, 3)
	assert.Equal(t, "b", items[0].Records[0].ID)
	assert.Equal(t, "a", items[1].Records[0].ID)
	assert.Equal(t, "c", items[2].Records[0].ID)
}

func TestNarrative(t *testing.T) {
	base := models.StandbyEvent{
		ID:          "b",
		PersonName:  "Jane Doe",
		DutyPlatoon: "C",
		ShiftDate:   civil.Date{Year: 2025, Month: time.March, Day: 5},
		ShiftType:   models.ShiftNight,
	}
	future := base
	future.ShiftDate = civil.Date{Year: 2025, Month: time.March, Day: 20}

	t.Run("deleted", func(t *testing.T) {
		ev := base
		ev.DeletedAt = at(1)
		assert.Equal(t, "05 Mar 2025 Night", Narrative(&ev, nil, today))
	})

	t.Run("unsettled", func(t *testing.T) {
		tests := []struct {
			name   string
			ev     models.StandbyEvent
			worked bool
			want   string
		}{
			{"owe past", base, true, "Jane Doe worked for you on 05 Mar 2025 - C Platoon Night. You owe them a shift."},
			{"owe future", future, true, "Jane Doe will work for you on 20 Mar 2025 - C Platoon Night. You will owe them a shift."},
			{"owed past", base, false, "You worked for Jane Doe on 05 Mar 2025 - C Platoon Night. They owe you a shift."},
			{"owed future", future, false, "You will work for Jane Doe on 20 Mar 2025 - C Platoon Night. They will owe you a shift."},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ev := tt.ev
				ev.WorkedForMe = tt.worked
				assert.Equal(t, tt.want, Narrative(&ev, nil, today))
			})
		}
	})

	t.Run("settled pair", func(t *testing.T) {
		obligation := base
		obligation.ID = "a"
		obligation.ShiftDate = civil.Date{Year: 2025, Month: time.March, Day: 1}
		obligation.WorkedForMe = true
		obligation.Settled, obligation.SettlementGroupID = true, "g"

		settling := future
		settling.Settled, settling.SettlementGroupID = true, "g"

		assert.Equal(t, "Jane Doe worked for you on 01 Mar 2025 Night.", Narrative(&obligation, &settling, today))
		assert.Equal(t,
			"Once you work for Jane Doe on 20 Mar 2025 - C Platoon Night, your shifts will be settled.",
			Narrative(&settling, &obligation, today))

		settling.WorkedForMe = true
		pastToday := civil.Date{Year: 2025, Month: time.April, Day: 1}
		assert.Equal(t,
			"After Jane Doe worked for you on 20 Mar 2025 - C Platoon Night, your shifts are settled.",
			Narrative(&settling, &obligation, pastToday))
	})

	t.Run("same date breaks tie by id", func(t *testing.T) {
		a := base
		a.ID, a.Settled, a.SettlementGroupID = "a", true, "g"
		b := base
		b.ID, b.Settled, b.SettlementGroupID = "b", true, "g"

		assert.Equal(t, "You worked for Jane Doe on 05 Mar 2025 Night.", Narrative(&a, &b, today))
		assert.Equal(t,
			"After you worked for Jane Doe on 05 Mar 2025 - C Platoon Night, your shifts are settled.",
			Narrative(&b, &a, today))
	})

	t.Run("settled without partner never mentions owing", func(t *testing.T) {
		ev := base
		ev.Settled, ev.SettlementGroupID = true, "gone"
		got := Narrative(&ev, nil, today)
		assert.Equal(t, "You worked for Jane Doe on 05 Mar 2025 Night.", got)
		assert.NotContains(t, got, "owe")
	})
}

func TestPartner(t *testing.T) {
	a := rec("a", -1, true)
	a.SettlementGroupID = "g"
	b := rec("b", 1, false)
	b.SettlementGroupID = "g"
	deleted := rec("c", 1, false)
	deleted.SettlementGroupID = "g"
	deleted.DeletedAt = at(1)

	records := []models.StandbyEvent{a, deleted, b}
	p := Partner(&records[0], records)
	require.NotNil(t, p)
	assert.Equal(t, "b", p.ID)

	lone := rec("x", 0, true)
	assert.Nil(t, Partner(&lone, records))
}

func TestStatusText(t *testing.T) {
	owe := rec("a", 0, true)
	owed := rec("b", 0, false)
	settled := rec("c", 0, false)
	settled.Settled = true
	deleted := rec("d", 0, false)
	deleted.Settled = true
	deleted.DeletedAt = at(1)

	assert.Equal(t, "You owe", StatusText(&owe))
	assert.Equal(t, "Owed to you", StatusText(&owed))
	assert.Equal(t, "Settled", StatusText(&settled))
	assert.Equal(t, "Deleted", StatusText(&deleted))
}

func TestOverlay(t *testing.T) {
	night := rec("night", 0, true)
	night.ShiftType = models.ShiftNight
	day := rec("day", 0, false)
	deleted := rec("deleted", 0, false)
	deleted.DeletedAt = at(1)

	roster := []models.RosterDay{
		{Date: today, DayPlatoon: "A", NightPlatoon: "D"},
		{Date: today.AddDays(1), DayPlatoon: "A", NightPlatoon: "D"},
	}
	got := Overlay([]models.StandbyEvent{night, deleted, day, rec("elsewhere", 9, true)}, roster)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"day", "night"}, ids(got[0].Standbys))
	assert.Equal(t, "A", got[0].Roster.DayPlatoon)
	assert.Empty(t, got[1].Standbys)
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" OWED_TO_ME ")
	require.NoError(t, err)
	assert.Equal(t, OwedToMe, c)
	assert.True(t, HistoryDeleted.IsHistory())

	_, err = ParseCategory("everything")
	assert.Error(t, err)
}
