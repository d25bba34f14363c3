// Package caches holds Redis-backed read-through snapshots. Nothing here is
// authoritative; the registration guard always counts rows itself.
package caches

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const capacityKeyPrefix = "cache:events:capacity:"

// CapacityCache stores capacity snapshots per event. A nil *CapacityCache is a
// valid no-op cache.
type CapacityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCapacityCache(rdb *redis.Client, ttl time.Duration) *CapacityCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CapacityCache{rdb: rdb, ttl: ttl}
}

func capacityKey(eventID uuid.UUID) string { return capacityKeyPrefix + eventID.String() }

// Get decodes the snapshot for eventID into dst. It reports false on a miss or
// on any Redis failure.
func (c *CapacityCache) Get(ctx context.Context, eventID uuid.UUID, dst any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, capacityKey(eventID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Ctx(ctx).Warn().Err(err).Str("event_id", eventID.String()).Msg("capacity cache get")
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event_id", eventID.String()).Msg("capacity cache decode")
		return false
	}
	return true
}

func (c *CapacityCache) Set(ctx context.Context, eventID uuid.UUID, v any) {
	if c == nil {
		return
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, capacityKey(eventID), raw, c.ttl).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event_id", eventID.String()).Msg("capacity cache set")
	}
}

func (c *CapacityCache) Invalidate(ctx context.Context, eventID uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, capacityKey(eventID)).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("event_id", eventID.String()).Msg("capacity cache invalidate")
	}
}

// Purge drops every capacity snapshot, used after bulk status changes.
func (c *CapacityCache) Purge(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.rdb.Scan(ctx, 0, capacityKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		_ = c.rdb.Del(ctx, iter.Val()).Err()
	}
	if err := iter.Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("capacity cache purge")
	}
}
