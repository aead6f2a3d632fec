package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const idemKeyPrefix = "idem:"

// IdempotencyStore records create-request keys in Redis with a TTL so the
// bot can retry POSTs after a network hiccup without duplicating tasks.
type IdempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewIdempotencyStore returns a new IdempotencyStore.
func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb, ttl: ttl}
}

// Begin claims the (owner, key) pair. Returns false if an earlier request
// already claimed it, meaning the caller should skip the side effect.
func (s *IdempotencyStore) Begin(ctx context.Context, ownerID int64, key string) (bool, error) {
	k := idemKeyPrefix + strconv.FormatInt(ownerID, 10) + ":" + key
	return s.rdb.SetNX(ctx, k, "1", s.ttl).Result()
}
