package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salondesk/internal/metrics"
	"salondesk/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// CachedStore decorates a RecordStore with a Redis-backed row-list cache.
// Reads come from the cache when present; every successful write
// invalidates the owning business's list so the next read pulls ground
// truth. Cache failures degrade to the inner store, never to an error.
type CachedStore struct {
	inner  RecordStore
	redis  *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

// NewCachedStore wraps inner with a Redis list cache.
func NewCachedStore(inner RecordStore, rdb *redis.Client, ttl time.Duration, logger *zerolog.Logger) *CachedStore {
	return &CachedStore{inner: inner, redis: rdb, ttl: ttl, logger: logger}
}

func listKey(businessID int64) string {
	return fmt.Sprintf("hours:%d", businessID)
}

// ListRows returns the cached row list for a business, falling back to
// the inner store on a miss.
func (c *CachedStore) ListRows(ctx context.Context, businessID int64) ([]model.WorkingHourRow, error) {
	key := listKey(businessID)
	var cached []model.WorkingHourRow
	if c.readCache(ctx, key, &cached) {
		metrics.IncCacheLookup("hit")
		return cached, nil
	}
	metrics.IncCacheLookup("miss")

	rows, err := c.inner.ListRows(ctx, businessID)
	if err != nil {
		return nil, err
	}
	c.writeCache(ctx, key, rows)
	return rows, nil
}

// CreateRow delegates to the inner store and invalidates the list cache.
func (c *CachedStore) CreateRow(ctx context.Context, row model.WorkingHourRow) (*model.WorkingHourRow, error) {
	created, err := c.inner.CreateRow(ctx, row)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, created.BusinessID)
	return created, nil
}

// UpdateRow delegates to the inner store and invalidates the list cache.
func (c *CachedStore) UpdateRow(ctx context.Context, id int64, patch model.Patch) (*model.WorkingHourRow, error) {
	updated, err := c.inner.UpdateRow(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.Invalidate(ctx, updated.BusinessID)
	return updated, nil
}

// GetRow delegates to the inner store; single rows are not cached.
func (c *CachedStore) GetRow(ctx context.Context, id int64) (*model.WorkingHourRow, error) {
	return c.inner.GetRow(ctx, id)
}

// DeleteRow resolves the owning business before deleting so the list
// cache can be invalidated afterwards.
func (c *CachedStore) DeleteRow(ctx context.Context, id int64) error {
	row, err := c.inner.GetRow(ctx, id)
	if err != nil {
		return err
	}
	if err := c.inner.DeleteRow(ctx, id); err != nil {
		return err
	}
	c.Invalidate(ctx, row.BusinessID)
	return nil
}

// Invalidate drops the cached row list for a business.
func (c *CachedStore) Invalidate(ctx context.Context, businessID int64) {
	if c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, listKey(businessID)).Err(); err != nil && c.logger != nil {
		c.logger.Warn().Err(err).Int64("business_id", businessID).Msg("cache invalidation failed")
	}
}

func (c *CachedStore) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.ttl <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *CachedStore) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.ttl <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}
