//go:build integration

package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a disposable Postgres, applies the repository
// migrations and returns a GORM handle on it.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gymdesk_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	path, err := filepath.Abs(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	m, err := migration.New(sqlDB, path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())

	status, err := m.Status()
	require.NoError(t, err)
	require.True(t, status.Applied)
	require.False(t, status.Dirty)

	return db
}

func seedTenant(t *testing.T, db *gorm.DB, code string) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant(code, "Gym "+code, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormTenantRepository(db).Save(context.Background(), tenant))
	return tenant
}

func TestPostgres_StoreInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	db := setupPostgres(t)
	ctx := context.Background()

	tenant := seedTenant(t, db, "PG1")
	member := seedMember(t, db, tenant.ID, "M-001")
	boxing := seedDiscipline(t, db, tenant.ID, "Boxing")

	t.Run("one active membership per member and discipline", func(t *testing.T) {
		repo := NewGormMembershipRepository(db)
		first := newTestMembership(t, tenant.ID, member.ID, boxing.ID, testNow, testNow.AddDate(0, 0, 5))
		require.NoError(t, repo.Save(ctx, first))

		dup := newTestMembership(t, tenant.ID, member.ID, boxing.ID, testNow, testNow.AddDate(0, 1, 0))
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)

		next, err := first.Renew(1, first.AmountPaid, "cash", "", testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, first))
		require.NoError(t, repo.Save(ctx, next))

		active, err := repo.FindActiveForMemberDiscipline(ctx, tenant.ID, member.ID, boxing.ID)
		require.NoError(t, err)
		assert.Equal(t, next.ID, active.ID)
	})

	t.Run("one attendance per member and day", func(t *testing.T) {
		repo := NewGormAttendanceRepository(db)
		loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
		require.NoError(t, err)

		// 23:30 local and 01:30 local the next day are different calendar days
		late := time.Date(2026, 3, 11, 2, 30, 0, 0, time.UTC)
		require.NoError(t, repo.Create(ctx, gym.NewAttendance(tenant.ID, member.ID, late, loc, "")))
		require.NoError(t, repo.Create(ctx, gym.NewAttendance(tenant.ID, member.ID, late.Add(2*time.Hour), loc, "")))

		again := gym.NewAttendance(tenant.ID, member.ID, late.Add(3*time.Hour), loc, "")
		assert.ErrorIs(t, repo.Create(ctx, again), shared.ErrConflict)
	})

	t.Run("one sent notification per member, category and day", func(t *testing.T) {
		repo := NewGormNotificationAttemptRepository(db)
		sent := notification.NewAttempt(tenant.ID, member.ID, nil, notification.BucketExpiringIn7, testNow, time.UTC, "hi", nil)
		require.NoError(t, repo.Create(ctx, sent))

		dup := notification.NewAttempt(tenant.ID, member.ID, nil, notification.BucketExpiringIn3, testNow.Add(time.Hour), time.UTC, "hi", nil)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrConflict)

		resend := notification.NewAttempt(tenant.ID, member.ID, nil, notification.BucketExpiringIn3, testNow.Add(time.Hour), time.UTC, "hi", nil)
		resend.Manual = true
		assert.NoError(t, repo.Create(ctx, resend), "manual resends sit outside the daily index")

		failed := notification.NewAttempt(tenant.ID, member.ID, nil, notification.BucketExpiringIn3, testNow.Add(time.Hour), time.UTC, "hi", assert.AnError)
		assert.NoError(t, repo.Create(ctx, failed))

		expired := notification.NewAttempt(tenant.ID, member.ID, nil, notification.BucketExpired, testNow.Add(time.Hour), time.UTC, "bye", nil)
		assert.NoError(t, repo.Create(ctx, expired))

		attempts, err := repo.FindByMember(ctx, tenant.ID, member.ID, 10)
		require.NoError(t, err)
		assert.Len(t, attempts, 4)
	})

	t.Run("duplicate member code within a tenant", func(t *testing.T) {
		repo := NewGormMemberRepository(db)
		dup, err := gym.NewMember(tenant.ID, "M-001", "Otra", "", testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)

		other := seedTenant(t, db, "PG2")
		sameCode, err := gym.NewMember(other.ID, "M-001", "Otra", "", testNow)
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, sameCode))
	})

	t.Run("messaging-enabled tenants", func(t *testing.T) {
		repo := NewGormTenantRepository(db)
		withBot := seedTenant(t, db, "PG3")
		require.NoError(t, withBot.UpdateMessaging(identity.MessagingSettings{BotToken: "123:abc", Enabled: true}, testNow))
		require.NoError(t, repo.Save(ctx, withBot))

		found, err := repo.FindWithMessagingEnabled(ctx)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, withBot.ID, found[0].ID)
		assert.Equal(t, "123:abc", found[0].Messaging.BotToken)
	})

	t.Run("tenant scope on reads", func(t *testing.T) {
		_, err := NewGormMemberRepository(db).FindByID(ctx, uuid.New(), member.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
