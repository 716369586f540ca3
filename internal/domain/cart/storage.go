// internal/domain/cart/storage.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage persists whole-cart snapshots per session
type Storage interface {
	Load(ctx context.Context, sessionID string) ([]CartItem, error)
	Save(ctx context.Context, sessionID string, items []CartItem) error
	Delete(ctx context.Context, sessionID string) error
}

// RedisStorage keeps each session's cart as one JSON array, replaced on every write
type RedisStorage struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStorage creates a Redis-backed cart storage
func NewRedisStorage(client *redis.Client, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client:    client,
		ttl:       ttl,
		keyPrefix: "cart:session:",
	}
}

// Key returns the Redis key holding a session's cart
func (r *RedisStorage) Key(sessionID string) string {
	return r.keyPrefix + sessionID
}

// Load returns the persisted items, or nil when the session has none
func (r *RedisStorage) Load(ctx context.Context, sessionID string) ([]CartItem, error) {
	data, err := r.client.Get(ctx, r.Key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart from Redis: %w", err)
	}

	var items []CartItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart data: %w", err)
	}

	return items, nil
}

// Save overwrites the session's cart and refreshes its TTL
func (r *RedisStorage) Save(ctx context.Context, sessionID string, items []CartItem) error {
	if items == nil {
		items = []CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart data: %w", err)
	}

	if err := r.client.Set(ctx, r.Key(sessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart to Redis: %w", err)
	}

	return nil
}

// Delete erases the session's persisted cart
func (r *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, r.Key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart from Redis: %w", err)
	}
	return nil
}
