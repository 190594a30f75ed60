package gstreports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const versionKey = "gstreports:version"

// Cache is a versioned redis snapshot cache. Every document mutation bumps
// the version, which retires all cached report payloads at once without
// enumerating keys. A nil cache degrades to computing every request.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache builds the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) || (err == nil && ver <= 0) {
		if setErr := c.client.Set(ctx, versionKey, 1, 0).Err(); setErr != nil {
			return 0, setErr
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// Key composes a versioned cache key from its parts.
func (c *Cache) Key(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(parts, ":")
	if c == nil || c.client == nil {
		return joined, nil
	}
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", joined, ver), nil
}

// FetchJSON returns the cached payload for key, computing and storing it via
// loader on a miss.
func (c *Cache) FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if c == nil || c.client == nil {
		value, err := loader(ctx)
		if err != nil {
			return err
		}
		return reencode(value, dest)
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(payload, dest)
	}
	if !errors.Is(err, redis.Nil) {
		return err
	}
	value, err := loader(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

// Bump retires every cached report by advancing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, versionKey).Err()
}

func reencode(value, dest any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
