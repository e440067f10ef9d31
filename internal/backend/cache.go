package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
)

const (
	cacheKeyPrefix     = "storefront:catalog:"
	cacheGenerationKey = cacheKeyPrefix + "generation"
)

// RedisClient is the subset of go-redis the catalog cache needs
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CatalogCache is a read-through cache for public catalog reads. It never
// fails a read: misses and Redis errors fall through to the backend, so
// availability shown from the cache is at most one TTL old and the backend
// stays the authority at booking time.
type CatalogCache struct {
	rdb    RedisClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogCache returns nil when ttl is zero, which disables caching
func NewCatalogCache(rdb RedisClient, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogCache{rdb: rdb, ttl: ttl, logger: logger}
}

// NewRedisClient parses REDIS_URL and pings the server
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *CatalogCache) get(ctx context.Context, key string, v any) bool {
	if c == nil {
		return false
	}
	fullKey, err := c.key(ctx, key)
	if err != nil {
		return false
	}

	data, err := c.rdb.Get(ctx, fullKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Catalog cache read failed", zap.String("key", fullKey), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		c.logger.Warn("Discarding undecodable catalog cache entry", zap.String("key", fullKey), zap.Error(err))
		return false
	}
	return true
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	fullKey, err := c.key(ctx, key)
	if err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, fullKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Catalog cache write failed", zap.String("key", fullKey), zap.Error(err))
	}
}

// key namespaces list entries by generation so one INCR invalidates every
// cached page without scanning
func (c *CatalogCache) key(ctx context.Context, key string) (string, error) {
	if !isListKey(key) {
		return cacheKeyPrefix + key, nil
	}
	gen, err := c.rdb.Get(ctx, cacheGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("Catalog cache generation read failed", zap.Error(err))
		return "", err
	}
	return fmt.Sprintf("%sg%d:%s", cacheKeyPrefix, gen, key), nil
}

func (c *CatalogCache) invalidateLists(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, cacheGenerationKey).Err(); err != nil {
		c.logger.Warn("Catalog cache invalidation failed", zap.Error(err))
	}
}

func (c *CatalogCache) invalidateEvent(ctx context.Context, id int) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, cacheKeyPrefix+eventCacheKey(id)).Err(); err != nil {
		c.logger.Warn("Catalog cache invalidation failed", zap.Int("event_id", id), zap.Error(err))
	}
	c.invalidateLists(ctx)
}

func eventCacheKey(id int) string {
	return "event:" + strconv.Itoa(id)
}

func listCacheKey(f models.EventFilter) string {
	return fmt.Sprintf("events:%s|%s|%d|%d", f.Category, f.Search, f.Page, f.Limit)
}

func isListKey(key string) bool {
	return len(key) > 7 && key[:7] == "events:"
}
