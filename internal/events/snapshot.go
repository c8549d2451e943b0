package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"auction-engine/internal/pkg/config"
	"auction-engine/internal/pkg/errs"
)

// SnapshotCache mirrors the most recent event per lot so a consumer can
// restart from the current state instead of replaying the stream.
type SnapshotCache interface {
	Store(ctx context.Context, lotID string, payload []byte) error
}

type RedisSnapshotCache struct {
	client *redis.Client
	cfg    config.RedisConfig
}

func NewRedisSnapshotCache(client *redis.Client, cfg config.RedisConfig) *RedisSnapshotCache {
	return &RedisSnapshotCache{client: client, cfg: cfg}
}

func (c *RedisSnapshotCache) Store(ctx context.Context, lotID string, payload []byte) error {
	key := fmt.Sprintf("lot:%s", lotID)
	if err := c.client.Set(ctx, key, payload, c.cfg.SnapshotTTL).Err(); err != nil {
		return errs.Wrap(err, "failed to store lot snapshot")
	}
	return nil
}
