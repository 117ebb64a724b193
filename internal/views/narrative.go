package views

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
)

// Partner finds the other live member of ev's settlement in records.
func Partner(ev *models.StandbyEvent, records []models.StandbyEvent) *models.StandbyEvent {
	if ev.SettlementGroupID == "" {
		return nil
	}
	for i := range records {
		other := &records[i]
		if other.ID != ev.ID && other.SettlementGroupID == ev.SettlementGroupID && !other.IsDeleted() {
			return other
		}
	}
	return nil
}

// isSettlingShift reports whether ev is the later shift of its pair, the one
// that repays the other. Equal dates fall back to the id.
func isSettlingShift(ev, partner *models.StandbyEvent) bool {
	if c := compareDates(ev.ShiftDate, partner.ShiftDate); c != 0 {
		return c > 0
	}
	return ev.ID > partner.ID
}

// Narrative is the sentence describing a record. partner may be nil.
func Narrative(ev, partner *models.StandbyEvent, today civil.Date) string {
	date := ledger.FormatDisplayDate(ev.ShiftDate)
	shift := ""
	if ev.ShiftType != "" {
		shift = " " + string(ev.ShiftType)
	}
	name := ev.PersonName
	if name == "" {
		name = "-"
	}

	if ev.IsDeleted() {
		return date + shift
	}

	plain := func() string {
		if ev.WorkedForMe {
			return fmt.Sprintf("%s worked for you on %s%s.", name, date, shift)
		}
		return fmt.Sprintf("You worked for %s on %s%s.", name, date, shift)
	}

	future := ledger.IsFutureDate(ev.ShiftDate, today)
	at := fmt.Sprintf("%s - %s%s", date, ledger.FormatPlatoonLabel(ev.DutyPlatoon), shift)

	if ev.Settled {
		if partner == nil || !isSettlingShift(ev, partner) {
			return plain()
		}
		switch {
		case ev.WorkedForMe && future:
			return fmt.Sprintf("Once %s works for you on %s, your shifts will be settled.", name, at)
		case ev.WorkedForMe:
			return fmt.Sprintf("After %s worked for you on %s, your shifts are settled.", name, at)
		case future:
			return fmt.Sprintf("Once you work for %s on %s, your shifts will be settled.", name, at)
		default:
			return fmt.Sprintf("After you worked for %s on %s, your shifts are settled.", name, at)
		}
	}

	switch {
	case ev.WorkedForMe && future:
		return fmt.Sprintf("%s will work for you on %s. You will owe them a shift.", name, at)
	case ev.WorkedForMe:
		return fmt.Sprintf("%s worked for you on %s. You owe them a shift.", name, at)
	case future:
		return fmt.Sprintf("You will work for %s on %s. They will owe you a shift.", name, at)
	default:
		return fmt.Sprintf("You worked for %s on %s. They owe you a shift.", name, at)
	}
}
