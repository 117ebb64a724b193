package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/standbys/internal/models"
)

func sampleRecords() []models.StandbyEvent {
	settledAt := time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
	return []models.StandbyEvent{
		{
			ID:          "a",
			OwnerID:     "owner",
			PersonName:  "Jane Doe",
			ShiftDate:   civil.Date{Year: 2025, Month: 3, Day: 1},
			ShiftType:   models.ShiftNight,
			WorkedForMe: true,
			Settled:     true,
			SettledAt:   &settledAt,
			CreatedAt:   settledAt,
			UpdatedAt:   settledAt,
		},
	}
}

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client, time.Minute), mr
}

func TestSnapshots(t *testing.T) {
	backends := map[string]func(t *testing.T) Snapshots{
		"memory": func(t *testing.T) Snapshots { return NewMemory(time.Minute) },
		"redis": func(t *testing.T) Snapshots {
			r, _ := newRedis(t)
			return r
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			c := build(t)

			_, ok := c.Get(ctx, "owner")
			assert.False(t, ok)

			c.Set(ctx, "owner", sampleRecords())
			got, ok := c.Get(ctx, "owner")
			require.True(t, ok)
			assert.Equal(t, sampleRecords(), got)

			_, ok = c.Get(ctx, "someone-else")
			assert.False(t, ok)

			c.Invalidate(ctx, "owner")
			_, ok = c.Get(ctx, "owner")
			assert.False(t, ok)
		})
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	c.Set(ctx, "owner", sampleRecords())

	got, _ := c.Get(ctx, "owner")
	got[0].PersonName = "Changed"

	again, _ := c.Get(ctx, "owner")
	assert.Equal(t, "Jane Doe", again[0].PersonName)
}

func TestRedis_ExpiresAndToleratesErrors(t *testing.T) {
	ctx := context.Background()
	r, mr := newRedis(t)

	r.Set(ctx, "owner", sampleRecords())
	assert.True(t, mr.Exists(keyPrefix+"owner"))

	mr.FastForward(2 * time.Minute)
	_, ok := r.Get(ctx, "owner")
	assert.False(t, ok)

	mr.SetError("LOADING")
	r.Set(ctx, "owner", sampleRecords())
	_, ok = r.Get(ctx, "owner")
	assert.False(t, ok)
	r.Invalidate(ctx, "owner")
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(time.Minute)
	calls := 0
	fetch := func(context.Context) ([]models.StandbyEvent, error) {
		calls++
		return sampleRecords(), nil
	}

	records, hit, err := Load(ctx, c, "owner", fetch)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Len(t, records, 1)

	_, hit, err = Load(ctx, c, "owner", fetch)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, _, err = Load(ctx, Nop{}, "owner", func(context.Context) ([]models.StandbyEvent, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}
