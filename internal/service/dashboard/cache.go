package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/survey-tracker/internal/domain"
)

const (
	cachePrefix = "survey:analytics:"
	// generationKey sits outside the invalidation scan pattern.
	generationKey = "survey:analytics-gen"
)

// Cache stores aggregated views.
type Cache interface {
	// Get decodes a cached value into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	// Generation returns the counter Invalidate bumps.
	Generation(ctx context.Context) (int64, error)
	// Set stores v only if no invalidation happened since gen was read.
	Set(ctx context.Context, key string, gen int64, v interface{}) error
	// Invalidate drops every cached view.
	Invalidate(ctx context.Context) error
}

// CacheKey is survey:analytics:<view>:<district>:<gender>:<group>, with
// empty filters written as "all".
func CacheKey(view View, f domain.RespondentFilter) string {
	part := func(s string) string {
		if s == "" {
			return "all"
		}
		return strings.ReplaceAll(s, ":", "_")
	}
	return cachePrefix + string(view) + ":" + part(f.District) + ":" + part(f.Gender) + ":" + part(f.Group)
}

// RedisCache keeps views as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a cache; ttl <= 0 means entries live until
// invalidated.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get cached view: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode cached view: %w", err)
	}
	return true, nil
}

func (c *RedisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read cache generation: %w", err)
	}
	return gen, nil
}

// setIfGeneration compares and writes in one step so a view computed before
// an invalidation can never land after it.
var setIfGeneration = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
else
	redis.call("SET", KEYS[1], ARGV[2])
end
return 1
`)

func (c *RedisCache) Set(ctx context.Context, key string, gen int64, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode view: %w", err)
	}
	var ttl int64
	if c.ttl > 0 {
		ttl = c.ttl.Milliseconds()
	}
	err = setIfGeneration.Run(ctx, c.client, []string{key, generationKey},
		strconv.FormatInt(gen, 10), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("cache view: %w", err)
	}
	return nil
}

// Invalidate bumps the generation, then scans the analytics prefix and
// deletes in batches.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cachePrefix+"*", 200).Result()
		if err != nil {
			return fmt.Errorf("scan cached views: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("drop cached views: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// NopCache never stores anything. It is used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NopCache) Generation(context.Context) (int64, error)              { return 0, nil }
func (NopCache) Set(context.Context, string, int64, interface{}) error  { return nil }
func (NopCache) Invalidate(context.Context) error                       { return nil }
