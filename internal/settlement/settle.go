package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/standbys/internal/ledger"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// Settle pairs two live, unsettled standbys. Both records are read again
// inside the transaction, so a delete that raced in is caught. The two
// records share the new settlement id and settled_at.
func (e *Engine) Settle(ctx context.Context, sess models.Session, aID, bID string, res Resolution) (st *models.Settlement, err error) {
	defer func() { e.recorder.Observe("settle", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	return e.settle(ctx, sess, aID, bID, res)
}

func (e *Engine) settle(ctx context.Context, sess models.Session, aID, bID string, res Resolution) (*models.Settlement, error) {
	if aID == bID {
		return nil, ErrSelfSettle
	}
	if res == nil {
		res = Typo{}
	}
	owner := sess.UserID
	now := e.now().UTC()

	st := &models.Settlement{
		ID:         uuid.New().String(),
		OwnerID:    owner,
		Resolution: res.Kind(),
		Note:       res.Annotation(),
		CreatedAt:  now,
	}

	err := e.store.InTx(ctx, func(tx storage.Store) error {
		members, err := tx.GetStandbys(ctx, owner, []string{aID, bID})
		if err != nil {
			return err
		}
		if len(members) != 2 {
			return fmt.Errorf("settle %s with %s: %w", aID, bID, storage.ErrNotFound)
		}
		for _, m := range members {
			if m.IsDeleted() {
				return ErrDeletedMember
			}
			if m.Settled {
				return ErrAlreadySettled
			}
		}

		if err := tx.CreateSettlement(ctx, st); err != nil {
			return err
		}
		n, err := tx.SetSettlement(ctx, owner, []string{aID, bID}, storage.SettlementState{
			Settled:   true,
			SettledAt: &now,
			GroupID:   st.ID,
		})
		if err != nil {
			return err
		}
		if n != 2 {
			return fmt.Errorf("settlement updated %d of 2 standbys", n)
		}

		return annotate(ctx, tx, members, res.Annotation())
	})
	if err != nil {
		return nil, storeErr("settle", err)
	}

	e.invalidate(ctx, owner)
	return st, nil
}

// annotate appends text to each record's notes unless already present.
func annotate(ctx context.Context, tx storage.Store, members []models.StandbyEvent, text string) error {
	if text == "" {
		return nil
	}
	for i := range members {
		m := &members[i]
		notes := ledger.AppendNote(m.Notes, text)
		if notes == m.Notes {
			continue
		}
		m.Notes = notes
		if err := tx.UpdateStandby(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Unsettle dissolves a settlement, returning every live member to the
// unsettled lists. It requires explicit confirmation and returns the ids
// that were unsettled.
func (e *Engine) Unsettle(ctx context.Context, sess models.Session, groupID string, confirmed bool) (ids []string, err error) {
	defer func() { e.recorder.Observe("unsettle", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	owner := sess.UserID

	err = e.store.InTx(ctx, func(tx storage.Store) error {
		f := storage.Live()
		f.GroupID = groupID
		members, err := tx.ListStandbys(ctx, owner, f)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return fmt.Errorf("settlement %s: %w", groupID, storage.ErrNotFound)
		}

		ids = memberIDs(members)
		if _, err := tx.SetSettlement(ctx, owner, ids, storage.Cleared); err != nil {
			return err
		}
		return tx.DissolveSettlement(ctx, owner, groupID, e.now().UTC())
	})
	if err != nil {
		return nil, storeErr("unsettle", err)
	}

	e.invalidate(ctx, owner)
	return ids, nil
}

// LinkOnAdd creates a standby from in and settles it with an existing one.
// If the settle fails after the insert, the new record is kept and a
// *PartialFailure carrying it is returned.
func (e *Engine) LinkOnAdd(ctx context.Context, sess models.Session, in ledger.Input, existingID string, res Resolution) (ev *models.StandbyEvent, st *models.Settlement, err error) {
	defer func() { e.recorder.Observe("link_on_add", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, nil, err
	}

	existing, err := e.store.GetStandby(ctx, sess.UserID, existingID)
	if err != nil {
		return nil, nil, storeErr("link_on_add", err)
	}
	return e.linkOnAdd(ctx, sess, in, existing, res)
}

func (e *Engine) linkOnAdd(ctx context.Context, sess models.Session, in ledger.Input, existing *models.StandbyEvent, res Resolution) (*models.StandbyEvent, *models.Settlement, error) {
	// Checked up front so the common failures leave nothing behind.
	if existing.IsDeleted() {
		return nil, nil, ErrDeletedMember
	}
	if existing.Settled {
		return nil, nil, ErrAlreadySettled
	}

	ev, err := e.add(ctx, sess, in)
	if err != nil {
		return nil, nil, err
	}

	st, err := e.settle(ctx, sess, ev.ID, existing.ID, res)
	if err != nil {
		return ev, nil, &PartialFailure{
			Op:        "create and settle",
			Completed: []string{"created standby " + ev.ID},
			Failed:    "settle with " + existing.ID,
			Record:    ev,
			Err:       err,
		}
	}

	// Reflect the settlement on the returned copy.
	ev.Settled = true
	ev.SettledAt = &st.CreatedAt
	ev.SettlementGroupID = st.ID
	ev.Notes = ledger.AppendNote(ev.Notes, res.Annotation())
	return ev, st, nil
}

// SettleWithNew records the repayment of an existing standby: the new record
// runs in the opposite direction and defaults to the same person.
func (e *Engine) SettleWithNew(ctx context.Context, sess models.Session, existingID string, in ledger.Input, res Resolution) (ev *models.StandbyEvent, st *models.Settlement, err error) {
	defer func() { e.recorder.Observe("settle_with_new", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, nil, err
	}
	if res == nil {
		res = Typo{}
	}

	existing, err := e.store.GetStandby(ctx, sess.UserID, existingID)
	if err != nil {
		return nil, nil, storeErr("settle_with_new", err)
	}

	in.WorkedForMe = !existing.WorkedForMe
	if ledger.NormalizeName(in.PersonName) == "" {
		in.PersonName = existing.PersonName
	}
	return e.linkOnAdd(ctx, sess, in, existing, res)
}

// Candidate is a record that could settle the target, with the advisory
// name comparison.
type Candidate struct {
	Standby      models.StandbyEvent `json:"standby"`
	NameMismatch bool                `json:"name_mismatch"`
}

// Candidates lists the live, unsettled standbys running in the opposite
// direction to id, latest shift first.
func (e *Engine) Candidates(ctx context.Context, sess models.Session, id string) (out []Candidate, err error) {
	defer func() { e.recorder.Observe("candidates", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}

	target, err := e.store.GetStandby(ctx, sess.UserID, id)
	if err != nil {
		return nil, storeErr("candidates", err)
	}
	if target.IsDeleted() {
		return nil, ErrDeleted
	}

	unsettled := false
	opposite := !target.WorkedForMe
	f := storage.Live()
	f.Settled = &unsettled
	f.WorkedForMe = &opposite
	f.OrderBy = storage.OrderShiftDate

	records, err := e.store.ListStandbys(ctx, sess.UserID, f)
	if err != nil {
		return nil, storeErr("candidates", err)
	}

	out = make([]Candidate, 0, len(records))
	for i := range records {
		if records[i].ID == target.ID {
			continue
		}
		out = append(out, Candidate{
			Standby:      records[i],
			NameMismatch: CheckNameMismatch(target, &records[i]).Mismatch,
		})
	}
	return out, nil
}

func memberIDs(members []models.StandbyEvent) []string {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	return ids
}
