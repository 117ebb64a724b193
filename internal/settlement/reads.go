package settlement

import (
	"context"
	"log/slog"

	"github.com/mmynk/standbys/internal/cache"
	"github.com/mmynk/standbys/internal/models"
	"github.com/mmynk/standbys/internal/storage"
)

// Get returns one of the session owner's standbys, deleted or not.
func (e *Engine) Get(ctx context.Context, sess models.Session, id string) (*models.StandbyEvent, error) {
	if err := e.authorize(sess); err != nil {
		return nil, err
	}
	ev, err := e.store.GetStandby(ctx, sess.UserID, id)
	if err != nil {
		return nil, storeErr("get", err)
	}
	return ev, nil
}

// Snapshot returns every record of the owner, deleted ones included, from
// the cache when possible. Without a session the snapshot is empty.
func (e *Engine) Snapshot(ctx context.Context, sess models.Session) (records []models.StandbyEvent, hit bool, err error) {
	if e.authorize(sess) != nil {
		return []models.StandbyEvent{}, false, nil
	}
	records, hit, err = cache.Load(ctx, e.cache, sess.UserID, func(ctx context.Context) ([]models.StandbyEvent, error) {
		return e.store.ListStandbys(ctx, sess.UserID, storage.Filter{})
	})
	if err != nil {
		return nil, false, storeErr("snapshot", err)
	}
	return records, hit, nil
}

// SuggestNames returns previously used names for autocomplete. Failures
// yield no suggestions.
func (e *Engine) SuggestNames(ctx context.Context, sess models.Session, prefix string, limit int) []string {
	if e.authorize(sess) != nil {
		return []string{}
	}
	names, err := e.store.DistinctNames(ctx, sess.UserID, prefix, limit)
	if err != nil {
		slog.Warn("Name suggestions failed", "user_id", sess.UserID, "error", err)
		return []string{}
	}
	return names
}
