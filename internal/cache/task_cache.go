package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/stetat/ToDo-bot/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyListPrefix = "tasks:list:"

// TaskCache caches per-owner task listings in Redis. It only serves the
// read-only list endpoint; ordinal resolution always goes to Postgres for a
// fresh snapshot.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached listing for the owner or nil if miss.
func (c *TaskCache) GetList(ctx context.Context, ownerID int64) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, listKey(ownerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the owner's listing in cache.
func (c *TaskCache) SetList(ctx context.Context, ownerID int64, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(ownerID), b, c.ttl).Err()
}

// Invalidate removes the owner's cached listing (cache invalidation on write).
func (c *TaskCache) Invalidate(ctx context.Context, ownerID int64) error {
	return c.rdb.Del(ctx, listKey(ownerID)).Err()
}

func listKey(ownerID int64) string {
	return keyListPrefix + strconv.FormatInt(ownerID, 10)
}
