package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const defaultClaimPrefix = "gym:claim:"

// RedisClaimStore implements ClaimStore using Redis.
// Claims are shared by every instance pointed at the same Redis.
type RedisClaimStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClaimStore creates a store with an existing Redis client
func NewRedisClaimStore(client *redis.Client, keyPrefix string) *RedisClaimStore {
	if keyPrefix == "" {
		keyPrefix = defaultClaimPrefix
	}
	return &RedisClaimStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Claim takes key for ttl with SET NX.
// Returns true if the key was set, false if it already existed.
func (s *RedisClaimStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to take claim: %w", err)
	}
	return ok, nil
}

// Release deletes the claim
func (s *RedisClaimStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release claim: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisClaimStore) Close() error {
	return s.client.Close()
}

// Ensure RedisClaimStore implements ClaimStore
var _ shared.ClaimStore = (*RedisClaimStore)(nil)
