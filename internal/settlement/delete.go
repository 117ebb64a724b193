package settlement

import (
	"context"
	"fmt"

	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// DeleteResult describes what a delete changed.
type DeleteResult struct {
	Deleted []string `json:"deleted"`
	// Unsettled lists former partners returned to the unsettled lists.
	Unsettled []string `json:"unsettled,omitempty"`
	// AlreadyDeleted is set when the call changed nothing.
	AlreadyDeleted bool `json:"already_deleted,omitempty"`
}

// SoftDelete marks a standby deleted. If it was settled, every other live
// member of its settlement is unsettled and the settlement dissolved, all in
// one transaction. Deleting a deleted record is a no-op.
func (e *Engine) SoftDelete(ctx context.Context, sess models.Session, id string, confirmed bool) (res *DeleteResult, err error) {
	defer func() { e.recorder.Observe("delete", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	owner := sess.UserID
	res = &DeleteResult{}

	err = e.store.InTx(ctx, func(tx storage.Store) error {
		ev, err := tx.GetStandby(ctx, owner, id)
		if err != nil {
			return err
		}
		if ev.IsDeleted() {
			res.AlreadyDeleted = true
			return nil
		}

		now := e.now().UTC()
		if _, err := tx.SetDeleted(ctx, owner, []string{id}, &now); err != nil {
			return err
		}
		res.Deleted = []string{id}

		if ev.SettlementGroupID == "" {
			return nil
		}
		f := storage.Live()
		f.GroupID = ev.SettlementGroupID
		partners, err := tx.ListStandbys(ctx, owner, f)
		if err != nil {
			return err
		}
		res.Unsettled = memberIDs(partners)
		if _, err := tx.SetSettlement(ctx, owner, res.Unsettled, storage.Cleared); err != nil {
			return err
		}
		return tx.DissolveSettlement(ctx, owner, ev.SettlementGroupID, now)
	})
	if err != nil {
		return nil, storeErr("delete", err)
	}

	if !res.AlreadyDeleted {
		e.invalidate(ctx, owner)
	}
	return res, nil
}

// DeletePair deletes every live member of a settlement in one step.
func (e *Engine) DeletePair(ctx context.Context, sess models.Session, groupID string, confirmed bool) (res *DeleteResult, err error) {
	defer func() { e.recorder.Observe("delete_pair", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	owner := sess.UserID
	res = &DeleteResult{}

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

		now := e.now().UTC()
		res.Deleted = memberIDs(members)
		if _, err := tx.SetDeleted(ctx, owner, res.Deleted, &now); err != nil {
			return err
		}
		return tx.DissolveSettlement(ctx, owner, groupID, now)
	})
	if err != nil {
		return nil, storeErr("delete_pair", err)
	}

	e.invalidate(ctx, owner)
	return res, nil
}

// Restore brings a deleted standby back. It always lands unsettled, even if
// it was part of a pair when deleted.
func (e *Engine) Restore(ctx context.Context, sess models.Session, id string) (ev *models.StandbyEvent, err error) {
	defer func() { e.recorder.Observe("restore", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	owner := sess.UserID

	err = e.store.InTx(ctx, func(tx storage.Store) error {
		ev, err = tx.GetStandby(ctx, owner, id)
		if err != nil {
			return err
		}
		if !ev.IsDeleted() {
			return nil
		}
		if err := restore(ctx, tx, owner, []string{id}); err != nil {
			return err
		}
		ev.DeletedAt = nil
		ev.ClearSettlement()
		return nil
	})
	if err != nil {
		return nil, storeErr("restore", err)
	}

	e.invalidate(ctx, owner)
	return ev, nil
}

// RestorePair restores every deleted member of a settlement. The members
// come back unsettled; settle them again to re-pair.
func (e *Engine) RestorePair(ctx context.Context, sess models.Session, groupID string) (ids []string, err error) {
	defer func() { e.recorder.Observe("restore_pair", err) }()
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	owner := sess.UserID

	err = e.store.InTx(ctx, func(tx storage.Store) error {
		deleted := true
		members, err := tx.ListStandbys(ctx, owner, storage.Filter{Deleted: &deleted, GroupID: groupID})
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return fmt.Errorf("deleted settlement %s: %w", groupID, storage.ErrNotFound)
		}
		ids = memberIDs(members)
		return restore(ctx, tx, owner, ids)
	})
	if err != nil {
		return nil, storeErr("restore_pair", err)
	}

	e.invalidate(ctx, owner)
	return ids, nil
}

func restore(ctx context.Context, tx storage.Store, owner string, ids []string) error {
	if _, err := tx.SetDeleted(ctx, owner, ids, nil); err != nil {
		return err
	}
	_, err := tx.SetSettlement(ctx, owner, ids, storage.Cleared)
	return err
}
