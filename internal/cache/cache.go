// Package cache keeps per-owner snapshots of standby records so repeated
// projection reads skip the store. Every mutation invalidates the owner's
// snapshot; a cache failure never fails a request.
package cache

import (
	"context"
	"slices"

	"github.com/mmynk/standbys/internal/models"
)

// Snapshots stores the full record list of one owner.
type Snapshots interface {
	Get(ctx context.Context, ownerID string) ([]models.StandbyEvent, bool)
	Set(ctx context.Context, ownerID string, records []models.StandbyEvent)
	Invalidate(ctx context.Context, ownerID string)
}

// Load returns the cached snapshot or calls fetch and caches its result.
// hit reports whether fetch was skipped.
func Load(ctx context.Context, c Snapshots, ownerID string, fetch func(context.Context) ([]models.StandbyEvent, error)) (records []models.StandbyEvent, hit bool, err error) {
	if records, ok := c.Get(ctx, ownerID); ok {
		return records, true, nil
	}
	records, err = fetch(ctx)
	if err != nil {
		return nil, false, err
	}
	c.Set(ctx, ownerID, records)
	return records, false, nil
}

// Nop never caches.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]models.StandbyEvent, bool) { return nil, false }
func (Nop) Set(context.Context, string, []models.StandbyEvent)        {}
func (Nop) Invalidate(context.Context, string)                        {}

func clone(records []models.StandbyEvent) []models.StandbyEvent {
	if records == nil {
		return []models.StandbyEvent{}
	}
	return slices.Clone(records)
}
