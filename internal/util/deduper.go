package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Deduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	return &Deduper{rdb: rdb, ttl: ttl}
}

// AcquireOnce tries to acquire a dedup lock for a given handler + emailID.
// Returns true if this is the first time processing, false on a duplicate.
// Fails open: when redis is unavailable, processing is not blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, handler string, emailID int) bool {
	key := fmt.Sprintf("dedup:%s:%d", handler, emailID)

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		return true
	}
	return ok
}

// Release gives a dedup slot back after the guarded work failed, so a
// redelivery of the same message is processed instead of skipped.
// Best-effort: if redis is unavailable the key expires via its TTL.
func (d *Deduper) Release(ctx context.Context, handler string, emailID int) {
	key := fmt.Sprintf("dedup:%s:%d", handler, emailID)
	_ = d.rdb.Del(ctx, key).Err()
}
