package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const prefix = "crm"

// Cache stores list query results per table. Every key written for a table is
// remembered in the table's index set so the whole table can be dropped at once.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedis creates a Redis backed cache.
func NewRedis(addr, password string, db int, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &Cache{Client: rdb, TTL: ttl}
}

// Ping tests the Redis connection
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	return c.Client.Close()
}

// Key builds the cache key of one query of a table.
func Key(table string, parts ...string) string {
	return prefix + ":" + table + ":" + strings.Join(parts, ":")
}

func indexKey(table string) string {
	return prefix + ":index:" + table
}

// GetJSON loads a cached value into dest. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error reading cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("error decoding cache key %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value under key and records key in the table index.
func (c *Cache) SetJSON(ctx context.Context, table, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding cache value: %w", err)
	}

	pipe := c.Client.TxPipeline()
	pipe.Set(ctx, key, data, c.TTL)
	pipe.SAdd(ctx, indexKey(table), key)
	pipe.Expire(ctx, indexKey(table), 2*c.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error writing cache key %s: %w", key, err)
	}
	return nil
}

// Invalidate drops every cached query of the given tables.
func (c *Cache) Invalidate(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		keys, err := c.Client.SMembers(ctx, indexKey(table)).Result()
		if err != nil {
			return fmt.Errorf("error reading cache index of %s: %w", table, err)
		}
		keys = append(keys, indexKey(table))
		if err := c.Client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("error invalidating cache of %s: %w", table, err)
		}
	}
	return nil
}

// Nop never stores anything. It is used when Redis is not configured.
type Nop struct{}

func (Nop) GetJSON(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Nop) SetJSON(context.Context, string, string, interface{}) error { return nil }
func (Nop) Invalidate(context.Context, ...string) error                { return nil }
