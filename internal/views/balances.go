package views

import (
	"cmp"
	"slices"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
)

// PersonBalance is the open position with one counterparty.
type PersonBalance struct {
	Name string `json:"name"`
	// OwedToMe counts shifts this person owes the owner.
	OwedToMe int `json:"owed_to_me"`
	// IOwe counts shifts the owner owes this person.
	IOwe int `json:"i_owe"`
	// Net is positive when the person owes the owner.
	Net int `json:"net"`
}

// Balances breaks CountPosition down by counterparty. Names are matched on
// their comparison key so spacing and case differences collapse; the most
// recent spelling is shown. People whose shifts cancel out are kept with a
// zero net. Largest imbalance first, then by name.
func Balances(records []models.StandbyEvent) []PersonBalance {
	byKey := make(map[string]*PersonBalance)
	newest := make(map[string]*models.StandbyEvent)

	for i := range records {
		ev := &records[i]
		if ev.IsDeleted() || ev.Settled {
			continue
		}
		key := ledger.NameKey(ev.PersonName)
		b, ok := byKey[key]
		if !ok {
			b = &PersonBalance{}
			byKey[key] = b
		}
		if ev.WorkedForMe {
			b.IOwe++
		} else {
			b.OwedToMe++
		}
		if n := newest[key]; n == nil || ev.UpdatedAt.After(n.UpdatedAt) {
			newest[key] = ev
		}
	}

	out := make([]PersonBalance, 0, len(byKey))
	for key, b := range byKey {
		b.Name = newest[key].PersonName
		b.Net = b.OwedToMe - b.IOwe
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b PersonBalance) int {
		return cmp.Or(cmp.Compare(abs(b.Net), abs(a.Net)), cmp.Compare(a.Name, b.Name))
	})
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
