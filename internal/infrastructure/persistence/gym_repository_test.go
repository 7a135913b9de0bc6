package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMember(t *testing.T, db *gorm.DB, tenantID uuid.UUID, code string) *gym.Member {
	t.Helper()
	member, err := gym.NewMember(tenantID, code, "Ana", "Lima", testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormMemberRepository(db).Save(context.Background(), member))
	return member
}

func seedDiscipline(t *testing.T, db *gorm.DB, tenantID uuid.UUID, name string) *gym.Discipline {
	t.Helper()
	d, err := gym.NewDiscipline(tenantID, name, testNow)
	require.NoError(t, err)
	require.NoError(t, NewGormDisciplineRepository(db).Save(context.Background(), d))
	return d
}

func newTestMembership(t *testing.T, tenantID, memberID, disciplineID uuid.UUID, start, end time.Time) *gym.Membership {
	t.Helper()
	ms, err := gym.NewMembership(tenantID, memberID, disciplineID, gym.MembershipTerms{
		StartDate:  start,
		EndDate:    end,
		AmountPaid: decimal.NewFromInt(300),
	}, testNow)
	require.NoError(t, err)
	return ms
}

func TestGormMemberRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMemberRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	otherTenant := uuid.New()

	member := seedMember(t, db, tenantID, "M-001")

	t.Run("finds by code within tenant", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, tenantID, " M-001 ")
		require.NoError(t, err)
		assert.Equal(t, member.ID, found.ID)
		assert.True(t, found.IsActive)
		assert.False(t, found.HasRecipient())
	})

	t.Run("never crosses tenants", func(t *testing.T) {
		_, err := repo.FindByID(ctx, otherTenant, member.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindByCode(ctx, otherTenant, "M-001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("persists recipient handle", func(t *testing.T) {
		require.NoError(t, member.LinkRecipient("998877", testNow))
		require.NoError(t, repo.Save(ctx, member))

		found, err := repo.FindByID(ctx, tenantID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, "998877", found.Recipient())
		assert.Equal(t, 2, found.Version)
	})

	t.Run("same code in another tenant is allowed", func(t *testing.T) {
		seedMember(t, db, otherTenant, "M-001")
		exists, err := repo.ExistsByCode(ctx, otherTenant, "M-001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate code in the same tenant is a conflict", func(t *testing.T) {
		dup, err := gym.NewMember(tenantID, "M-001", "Bea", "Souza", testNow)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)
	})
}

func TestGormMemberRepository_FindByID_QueryShape(t *testing.T) {
	gormDB, mock, mockDB := newMockGormDB(t)
	defer mockDB.Close()
	repo := NewGormMemberRepository(gormDB)

	tenantID := uuid.New()
	memberID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "tenant_id", "code", "first_name", "last_name", "is_active", "version"}).
		AddRow(memberID, tenantID, "M-9", "Caio", "Reis", true, 1)

	mock.ExpectQuery(`SELECT \* FROM "members" WHERE (id = \$1 AND tenant_id = \$2|tenant_id = \$1 AND id = \$2) ORDER BY "members"."id" LIMIT \$3`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), 1).
		WillReturnRows(rows)

	member, err := repo.FindByID(context.Background(), tenantID, memberID)
	require.NoError(t, err)
	assert.Equal(t, "M-9", member.Code)
	assert.Equal(t, tenantID, member.TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDisciplineRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormDisciplineRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	d := seedDiscipline(t, db, tenantID, "Boxing")

	found, err := repo.FindByID(ctx, tenantID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boxing", found.Name)

	exists, err := repo.ExistsByName(ctx, tenantID, "boxing")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(ctx, uuid.New(), "Boxing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormMembershipRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormMembershipRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	member := seedMember(t, db, tenantID, "M-001")
	boxing := seedDiscipline(t, db, tenantID, "Boxing")
	yoga := seedDiscipline(t, db, tenantID, "Yoga")

	shortOne := newTestMembership(t, tenantID, member.ID, boxing.ID, testNow, testNow.AddDate(0, 0, 10))
	longOne := newTestMembership(t, tenantID, member.ID, yoga.ID, testNow, testNow.AddDate(0, 2, 0))
	require.NoError(t, repo.Save(ctx, shortOne))
	require.NoError(t, repo.Save(ctx, longOne))

	t.Run("active read takes the latest end date", func(t *testing.T) {
		active, err := repo.FindActiveForMember(ctx, tenantID, member.ID)
		require.NoError(t, err)
		assert.Equal(t, longOne.ID, active.ID)
		assert.True(t, active.AmountPaid.Equal(decimal.NewFromInt(300)))
	})

	t.Run("active read by discipline", func(t *testing.T) {
		active, err := repo.FindActiveForMemberDiscipline(ctx, tenantID, member.ID, boxing.ID)
		require.NoError(t, err)
		assert.Equal(t, shortOne.ID, active.ID)
	})

	t.Run("second active row for the same discipline is a conflict", func(t *testing.T) {
		dup := newTestMembership(t, tenantID, member.ID, boxing.ID, testNow, testNow.AddDate(0, 1, 0))
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConflict)
	})

	t.Run("renewal saves old then new without conflict", func(t *testing.T) {
		next, err := shortOne.Renew(1, decimal.NewFromInt(320), "cash", "", testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, shortOne))
		require.NoError(t, repo.Save(ctx, next))

		old, err := repo.FindByID(ctx, tenantID, shortOne.ID)
		require.NoError(t, err)
		assert.Equal(t, gym.MembershipStatusExpired, old.Status)

		active, err := repo.FindActiveForMemberDiscipline(ctx, tenantID, member.ID, boxing.ID)
		require.NoError(t, err)
		assert.Equal(t, next.ID, active.ID)
		require.NotNil(t, active.RenewedFromID)
		assert.Equal(t, shortOne.ID, *active.RenewedFromID)
	})

	t.Run("no active membership is not found", func(t *testing.T) {
		_, err := repo.FindActiveForMember(ctx, tenantID, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("ending-between spans tenants and excludes expired", func(t *testing.T) {
		otherTenant := uuid.New()
		otherMember := seedMember(t, db, otherTenant, "X-1")
		otherDisc := seedDiscipline(t, db, otherTenant, "Judo")
		soon := newTestMembership(t, otherTenant, otherMember.ID, otherDisc.ID, testNow, testNow.AddDate(0, 0, 3))
		require.NoError(t, repo.Save(ctx, soon))

		found, err := repo.FindActiveEndingBetween(ctx, testNow, testNow.AddDate(0, 0, 9))
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, soon.ID, found[0].ID)
		assert.Equal(t, otherTenant, found[0].TenantID)
	})
}

func TestGormAttendanceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	member := seedMember(t, db, tenantID, "M-001")

	first := gym.NewAttendance(tenantID, member.ID, testNow, time.UTC, "")
	require.NoError(t, repo.Create(ctx, first))

	t.Run("second row on the same day is a conflict", func(t *testing.T) {
		second := gym.NewAttendance(tenantID, member.ID, testNow.Add(3*time.Hour), time.UTC, "")
		assert.ErrorIs(t, repo.Create(ctx, second), shared.ErrConflict)
	})

	t.Run("next day is accepted", func(t *testing.T) {
		next := gym.NewAttendance(tenantID, member.ID, testNow.AddDate(0, 0, 1), time.UTC, "")
		assert.NoError(t, repo.Create(ctx, next))
	})

	t.Run("finds the first row of the day", func(t *testing.T) {
		dayStart, dayEnd := shared.DayRange(testNow, time.UTC)
		found, err := repo.FindFirstBetween(ctx, tenantID, member.ID, dayStart, dayEnd)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "2026-03-10", found.CheckInDate)
		assert.True(t, found.CheckedInAt.Equal(testNow))
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		dayStart, dayEnd := shared.DayRange(testNow, time.UTC)
		_, err := repo.FindFirstBetween(ctx, uuid.New(), member.ID, dayStart, dayEnd)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
