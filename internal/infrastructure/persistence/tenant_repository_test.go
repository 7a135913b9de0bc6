package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTenantRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTenantRepository(db)
	ctx := context.Background()

	north, err := identity.NewTenant("north", "North Gym", testNow)
	require.NoError(t, err)
	require.NoError(t, north.UpdateMessaging(identity.MessagingSettings{BotToken: "123:abc", Enabled: true}, testNow))
	require.NoError(t, repo.Save(ctx, north))

	south, err := identity.NewTenant("south", "South Gym", testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, south))

	t.Run("finds by id with messaging settings", func(t *testing.T) {
		found, err := repo.FindByID(ctx, north.ID)
		require.NoError(t, err)
		assert.Equal(t, "NORTH", found.Code)
		assert.Equal(t, "123:abc", found.Messaging.BotToken)
		assert.True(t, found.Messaging.Enabled)
	})

	t.Run("finds by code case-insensitively", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "south")
		require.NoError(t, err)
		assert.Equal(t, south.ID, found.ID)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("lists only tenants with messaging enabled", func(t *testing.T) {
		tenants, err := repo.FindWithMessagingEnabled(ctx)
		require.NoError(t, err)
		require.Len(t, tenants, 1)
		assert.Equal(t, north.ID, tenants[0].ID)
	})

	t.Run("skips suspended tenants with messaging enabled", func(t *testing.T) {
		suspended, err := identity.NewTenant("east", "East Gym", testNow)
		require.NoError(t, err)
		require.NoError(t, suspended.UpdateMessaging(identity.MessagingSettings{BotToken: "456:def", Enabled: true}, testNow))
		require.NoError(t, suspended.Suspend(testNow))
		require.NoError(t, repo.Save(ctx, suspended))

		tenants, err := repo.FindWithMessagingEnabled(ctx)
		require.NoError(t, err)
		assert.Len(t, tenants, 1)
	})

	t.Run("finds by ids", func(t *testing.T) {
		tenants, err := repo.FindByIDs(ctx, []uuid.UUID{north.ID, south.ID, uuid.New()})
		require.NoError(t, err)
		assert.Len(t, tenants, 2)

		empty, err := repo.FindByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("exists by code", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "NORTH")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "WEST")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		dup, err := identity.NewTenant("north", "Another North", testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)
	})
}
