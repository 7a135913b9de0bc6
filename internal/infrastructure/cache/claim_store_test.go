package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryClaimStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		store := NewInMemoryClaimStore()
		defer store.Close()

		ok, err := store.Claim(ctx, "gym:notify:m1:EXPIRED:2026-03-10", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Claim(ctx, "gym:notify:m1:EXPIRED:2026-03-10", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired claim can be taken again", func(t *testing.T) {
		store := NewInMemoryClaimStore()
		defer store.Close()

		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }

		ok, _ := store.Claim(ctx, "k", time.Minute)
		require.True(t, ok)

		now = now.Add(2 * time.Minute)
		ok, err := store.Claim(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the key", func(t *testing.T) {
		store := NewInMemoryClaimStore()
		defer store.Close()

		ok, _ := store.Claim(ctx, "k", time.Hour)
		require.True(t, ok)
		require.NoError(t, store.Release(ctx, "k"))

		ok, _ = store.Claim(ctx, "k", time.Hour)
		assert.True(t, ok)
	})

	t.Run("cleanup drops expired entries", func(t *testing.T) {
		store := NewInMemoryClaimStore()
		defer store.Close()

		now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }
		_, _ = store.Claim(ctx, "a", time.Minute)
		_, _ = store.Claim(ctx, "b", time.Hour)

		now = now.Add(10 * time.Minute)
		store.cleanup()
		assert.Equal(t, 1, store.Size())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryClaimStore()
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}

func TestRedisClaimStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisClaimStore(client, "")
	defer store.Close()
	ctx := context.Background()

	ok, err := store.Claim(ctx, "m1:EXPIRED:2026-03-10", 26*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("gym:claim:m1:EXPIRED:2026-03-10"))
	assert.Equal(t, 26*time.Hour, mr.TTL("gym:claim:m1:EXPIRED:2026-03-10"))

	ok, err = store.Claim(ctx, "m1:EXPIRED:2026-03-10", 26*time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(27 * time.Hour)
	ok, err = store.Claim(ctx, "m1:EXPIRED:2026-03-10", 26*time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Release(ctx, "m1:EXPIRED:2026-03-10"))
	assert.False(t, mr.Exists("gym:claim:m1:EXPIRED:2026-03-10"))
}

func TestRedisClaimStore_ServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	store := NewRedisClaimStore(client, "")
	defer store.Close()

	mr.Close()
	_, err := store.Claim(context.Background(), "k", time.Minute)
	assert.Error(t, err)
}
