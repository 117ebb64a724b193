package ledger

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/standbys/internal/models"
)

func TestClassify(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		ev   models.StandbyEvent
		want models.Status
	}{
		{"active", models.StandbyEvent{}, models.StatusActive},
		{"settled", models.StandbyEvent{Settled: true, SettledAt: &now}, models.StatusSettled},
		{"deleted", models.StandbyEvent{DeletedAt: &now}, models.StatusDeleted},
		{"deleted wins over settled", models.StandbyEvent{Settled: true, SettledAt: &now, DeletedAt: &now}, models.StatusDeleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.ev))
		})
	}
}

func TestIsFutureDate(t *testing.T) {
	today := civil.Date{Year: 2025, Month: time.March, Day: 10}
	assert.False(t, IsFutureDate(today, today))
	assert.False(t, IsFutureDate(today.AddDays(-1), today))
	assert.True(t, IsFutureDate(today.AddDays(1), today))
}

func TestToday(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	// 20:00 UTC on the 9th is the morning of the 10th in Sydney.
	now := time.Date(2025, time.March, 9, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 10}, Today(now, loc))
	assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 9}, Today(now, time.UTC))
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  jane   doe ", "Jane Doe"},
		{"JANE DOE", "Jane Doe"},
		{"jAnE", "Jane"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNamesMismatch(t *testing.T) {
	assert.False(t, NamesMismatch("Jane Doe", " jane  doe"))
	assert.True(t, NamesMismatch("Jane Doe", "John Doe"))
	assert.False(t, NamesMismatch("", "John Doe"))
}

func TestAppendNote(t *testing.T) {
	tests := []struct {
		name  string
		notes string
		want  string
	}{
		{"empty notes", "", ThreeWayMarker},
		{"whitespace notes", "  \n ", ThreeWayMarker},
		{"existing notes", "Swapped at station 4", "Swapped at station 4\n\n" + ThreeWayMarker},
		{"already present", "Swapped\n\nthree way standby", "Swapped\n\nthree way standby"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendNote(tt.notes, ThreeWayMarker)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, AppendNote(got, ThreeWayMarker), "second append must be a no-op")
		})
	}

	assert.Equal(t, "keep", AppendNote(" keep ", "  "))
}

func TestFormatPlatoonLabel(t *testing.T) {
	assert.Equal(t, "-", FormatPlatoonLabel(""))
	assert.Equal(t, "B Platoon", FormatPlatoonLabel("B"))
	assert.Equal(t, "Red platoon", FormatPlatoonLabel("Red platoon"))
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "05 Mar 2025", FormatDisplayDate(civil.Date{Year: 2025, Month: time.March, Day: 5}))
	assert.Equal(t, "-", FormatDisplayDate(civil.Date{}))
}

func TestValidateInput(t *testing.T) {
	valid := Input{
		PersonName:  "  jane  doe ",
		ShiftDate:   "2025-03-05",
		ShiftType:   "night",
		WorkedForMe: true,
		Notes:       " covered the night ",
	}

	t.Run("valid", func(t *testing.T) {
		f, err := ValidateInput(valid)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", f.PersonName)
		assert.Equal(t, civil.Date{Year: 2025, Month: time.March, Day: 5}, f.ShiftDate)
		assert.Equal(t, models.ShiftNight, f.ShiftType)
		assert.True(t, f.WorkedForMe)
		assert.Equal(t, "covered the night", f.Notes)
	})

	tests := []struct {
		name  string
		edit  func(*Input)
		field string
	}{
		{"blank name", func(in *Input) { in.PersonName = "   " }, "person_name"},
		{"missing date", func(in *Input) { in.ShiftDate = "" }, "shift_date"},
		{"bad date", func(in *Input) { in.ShiftDate = "2025-02-30" }, "shift_date"},
		{"bad shift type", func(in *Input) { in.ShiftType = "Evening" }, "shift_type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			_, err := ValidateInput(in)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFieldsApplyKeepsSettlement(t *testing.T) {
	at := time.Now()
	ev := models.StandbyEvent{Settled: true, SettledAt: &at, SettlementGroupID: "g1"}
	f, err := ValidateInput(Input{PersonName: "bob", ShiftDate: "2025-01-01", ShiftType: "Day"})
	require.NoError(t, err)

	f.Apply(&ev)
	assert.Equal(t, "Bob", ev.PersonName)
	assert.True(t, ev.Settled)
	assert.Equal(t, "g1", ev.SettlementGroupID)
}
