// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"sibtech_backend/internal/feature/tracking/domain/entity"
	"sibtech_backend/internal/feature/tracking/usecase"
	"sibtech_backend/internal/shared/sortorder"
)

// CachingMeasurementRepository decorates a MeasurementRepository with Redis caching.
// Listings are cached per (user, order); a write drops every cached listing of that user.
type CachingMeasurementRepository struct {
	inner     usecase.MeasurementRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.MeasurementRepository = (*CachingMeasurementRepository)(nil)

// NewCachingMeasurementRepository decorates a MeasurementRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "measurements".
// A nil rdb turns the decorator into a pass-through.
func NewCachingMeasurementRepository(rdb *redis.Client, ttl time.Duration, inner usecase.MeasurementRepository, namespace string) *CachingMeasurementRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "measurements"
	}
	return &CachingMeasurementRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the measurement and invalidates the user's cached listings.
func (c *CachingMeasurementRepository) Create(ctx context.Context, m *entity.Measurement) error {
	if err := c.inner.Create(ctx, m); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: a stale entry expires with the TTL anyway
	if err := c.deleteByPattern(ctx, c.cacheKeyPrefix(m.UserID)+"*"); err != nil {
		slog.Warn("measurement cache invalidation failed", "error", err, "user_id", m.UserID)
	}
	return nil
}

// ListByUser checks the cache first then falls back to the inner repository.
func (c *CachingMeasurementRepository) ListByUser(ctx context.Context, userID uint, order sortorder.Order) ([]entity.Measurement, error) {
	if c.rdb == nil {
		return c.inner.ListByUser(ctx, userID, order)
	}

	key := c.cacheKey(userID, order)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Measurement
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListByUser(ctx, userID, order)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingMeasurementRepository) cacheKey(userID uint, order sortorder.Order) string {
	if order != sortorder.Desc {
		order = sortorder.Asc
	}
	return fmt.Sprintf("%s%s", c.cacheKeyPrefix(userID), order)
}

func (c *CachingMeasurementRepository) cacheKeyPrefix(userID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, userID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingMeasurementRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
