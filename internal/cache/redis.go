package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on a shared Redis instance so multiple
// replicas reuse the same rate lookups. Values are stored as JSON under
// a key prefix with Redis-side TTL expiry.
type RedisCache[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache connects to the Redis instance at addr, which must be a
// redis:// or rediss:// URL with an optional numeric database path.
func NewRedisCache[T any](addr, prefix string, ttl time.Duration) (*RedisCache[T], error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	var passwd string
	if u.User != nil {
		passwd, _ = u.User.Password()
	}
	db := 0
	if len(u.Path) > 1 {
		db, err = strconv.Atoi(u.Path[1:])
		if err != nil {
			return nil, fmt.Errorf("parse redis database %q: %w", u.Path[1:], err)
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     u.Host,
		Password: passwd,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisCache[T]{client: client, prefix: prefix, ttl: ttl}, nil
}

func (c *RedisCache[T]) key(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves and unmarshals a value; misses and decode failures both
// report a miss so the caller recomputes.
func (c *RedisCache[T]) Get(key string) (T, bool) {
	var zero T
	data, err := c.client.Get(context.Background(), c.key(key)).Bytes()
	if err != nil {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false
	}
	return value, true
}

// Set marshals and stores a value with the configured TTL. Failures are
// ignored; the cache is an optimization, not a source of truth.
func (c *RedisCache[T]) Set(key string, data T) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	c.client.Set(context.Background(), c.key(key), payload, c.ttl)
}

// Delete removes a key from the cache.
func (c *RedisCache[T]) Delete(key string) {
	c.client.Del(context.Background(), c.key(key))
}

// Size returns the number of entries under this cache's prefix.
func (c *RedisCache[T]) Size() int {
	keys, err := c.client.Keys(context.Background(), c.prefix+":*").Result()
	if err != nil {
		return 0
	}
	return len(keys)
}

// Close releases the underlying Redis connection.
func (c *RedisCache[T]) Close() error {
	return c.client.Close()
}
