package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/standbys/internal/models"
)

const keyPrefix = "standbys:snapshot:"

// Redis caches snapshots as JSON values in Redis, shared between replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to redisURL and checks the connection.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration) (*Redis, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("Redis connection established", "addr", opt.Addr)
	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(ownerID string) string {
	return keyPrefix + ownerID
}

func (r *Redis) Get(ctx context.Context, ownerID string) ([]models.StandbyEvent, bool) {
	data, err := r.client.Get(ctx, key(ownerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("Snapshot cache read failed", "owner_id", ownerID, "error", err)
		}
		return nil, false
	}

	var records []models.StandbyEvent
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("Snapshot cache entry unreadable", "owner_id", ownerID, "error", err)
		return nil, false
	}
	return clone(records), true
}

func (r *Redis) Set(ctx context.Context, ownerID string, records []models.StandbyEvent) {
	data, err := json.Marshal(clone(records))
	if err != nil {
		slog.Warn("Snapshot cache encode failed", "owner_id", ownerID, "error", err)
		return
	}
	if err := r.client.Set(ctx, key(ownerID), data, r.ttl).Err(); err != nil {
		slog.Warn("Snapshot cache write failed", "owner_id", ownerID, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, ownerID string) {
	if err := r.client.Del(ctx, key(ownerID)).Err(); err != nil {
		slog.Warn("Snapshot cache invalidate failed", "owner_id", ownerID, "error", err)
	}
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
