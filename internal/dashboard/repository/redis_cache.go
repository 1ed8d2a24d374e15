package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ridloal/factory-inventory/internal/dashboard/domain"
)

const snapshotKey = "dashboard:snapshot"

// SnapshotCache holds the latest snapshot. Get returns nil, nil on a miss.
type SnapshotCache interface {
	Get(ctx context.Context) (*domain.Snapshot, error)
	Set(ctx context.Context, s *domain.Snapshot) error
}

type redisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(client *redis.Client, ttl time.Duration) SnapshotCache {
	return &redisSnapshotCache{client: client, ttl: ttl}
}

func (c *redisSnapshotCache) Get(ctx context.Context) (*domain.Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *redisSnapshotCache) Set(ctx context.Context, s *domain.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, snapshotKey, data, c.ttl).Err()
}
