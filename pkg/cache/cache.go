// Package cache is a small JSON-over-Redis cache.
//
// It backs the read-through hook in pkg/orm (item catalog reads) and the
// order-history responses, which are invalidated whenever a placement
// commits. Every helper no-ops safely when Redis is unreachable so the
// shop keeps working without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shashiranjanraj/vastra/config"
)

// RDB is the shared client; nil while Redis is unavailable. The queue's
// Redis driver reuses it.
var RDB *redis.Client

var ctx = context.Background()

// Connect opens the client and verifies it with a ping. On failure RDB
// stays nil and every helper degrades to a no-op.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	RDB = client
	return nil
}

// Close releases the client.
func Close() {
	if RDB == nil {
		return
	}
	_ = RDB.Close()
	RDB = nil
}

// Get unmarshals the cached value for key into dest and reports a hit.
// A miss, a decode failure, or no Redis all read as a plain miss.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value as JSON under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Del removes keys; missing keys are not an error.
func Del(keys ...string) error {
	if RDB == nil || len(keys) == 0 {
		return nil
	}
	return RDB.Del(ctx, keys...).Err()
}

// Forget drops a single key, reading better at invalidation sites.
func Forget(key string) error { return Del(key) }
