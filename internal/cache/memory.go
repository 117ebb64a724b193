package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mmynk/standbys/internal/models"
)

// Memory caches snapshots in process.
type Memory struct {
	c *gocache.Cache
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, ttl*2)}
}

func (m *Memory) Get(_ context.Context, ownerID string) ([]models.StandbyEvent, bool) {
	v, ok := m.c.Get(ownerID)
	if !ok {
		return nil, false
	}
	records, ok := v.([]models.StandbyEvent)
	if !ok {
		return nil, false
	}
	return clone(records), true
}

func (m *Memory) Set(_ context.Context, ownerID string, records []models.StandbyEvent) {
	m.c.SetDefault(ownerID, clone(records))
}

func (m *Memory) Invalidate(_ context.Context, ownerID string) {
	m.c.Delete(ownerID)
}
