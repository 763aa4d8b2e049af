package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys for catalog listings. Every catalog or review mutation must
// invalidate the keys it can affect.
const (
	ProductListKey  = "catalog:products"   // Visible product listing
	CategoryListKey = "catalog:categories" // Active category listing
)

// ProductDetailKey builds the cache key for a single product detail view.
func ProductDetailKey(slug string) string {
	return "catalog:product:" + slug
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis. Missing keys are not an error.
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}
