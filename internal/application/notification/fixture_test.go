package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/cache"
	"github.com/gymdesk/backend/internal/infrastructure/persistence"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is Friday morning; all fixtures live in UTC
var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// MockChannel is a mock implementation of notification.Channel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Send(ctx context.Context, recipient, text string) error {
	args := m.Called(ctx, recipient, text)
	return args.Error(0)
}

// stubChannels resolves tenants to fixed channels
type stubChannels map[uuid.UUID]notification.Channel

func (s stubChannels) Get(tenantID uuid.UUID) (notification.Channel, bool) {
	ch, ok := s[tenantID]
	return ch, ok
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// testEnv wires the notification engine on an in-memory database
type testEnv struct {
	t   *testing.T
	db  *gorm.DB
	ctx context.Context

	tenants     *persistence.GormTenantRepository
	members     *persistence.GormMemberRepository
	disciplines *persistence.GormDisciplineRepository
	memberships *persistence.GormMembershipRepository
	attempts    *persistence.GormNotificationAttemptRepository
	attendance  *persistence.GormAttendanceRepository

	channels stubChannels
	claims   *cache.InMemoryClaimStore
	lock     *cache.InMemoryRunLock
	clock    *shared.FixedClock

	ledger     *DedupLedger
	dispatcher *Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		t:           t,
		db:          db,
		ctx:         context.Background(),
		tenants:     persistence.NewGormTenantRepository(db),
		members:     persistence.NewGormMemberRepository(db),
		disciplines: persistence.NewGormDisciplineRepository(db),
		memberships: persistence.NewGormMembershipRepository(db),
		attempts:    persistence.NewGormNotificationAttemptRepository(db),
		attendance:  persistence.NewGormAttendanceRepository(db),
		channels:    stubChannels{},
		claims:      cache.NewInMemoryClaimStore(),
		lock:        cache.NewInMemoryRunLock(),
		clock:       &shared.FixedClock{At: testNow},
	}
	t.Cleanup(func() { _ = env.claims.Close() })

	renderer, err := notification.NewRenderer(nil)
	require.NoError(t, err)

	env.ledger = NewDedupLedger(env.attempts, env.attendance, env.clock, time.UTC, zap.NewNop())
	env.dispatcher = NewDispatcher(env.channels, renderer, env.ledger, env.clock, zap.NewNop(),
		WithSendClaims(env.claims, time.Hour),
	)
	return env
}

func (e *testEnv) newSweep(cfg SweepConfig) *ExpirationSweep {
	return NewExpirationSweep(e.memberships, e.members, e.disciplines, e.tenants,
		e.ledger, e.dispatcher, e.lock, e.clock, cfg, nil, zap.NewNop())
}

func (e *testEnv) seedTenant(code string) *identity.Tenant {
	e.t.Helper()
	tenant, err := identity.NewTenant(code, "Iron Temple "+code, testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.tenants.Save(e.ctx, tenant))
	return tenant
}

// connect installs a mock channel for the tenant that accepts every message
func (e *testEnv) connect(tenant *identity.Tenant) *MockChannel {
	ch := &MockChannel{}
	ch.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	e.channels[tenant.ID] = ch
	return ch
}

func (e *testEnv) seedMember(tenant *identity.Tenant, code, handle string) *gym.Member {
	e.t.Helper()
	member, err := gym.NewMember(tenant.ID, code, "Lucia", "Paz", testNow)
	require.NoError(e.t, err)
	if handle != "" {
		require.NoError(e.t, member.LinkRecipient(handle, testNow))
	}
	require.NoError(e.t, e.members.Save(e.ctx, member))
	return member
}

func (e *testEnv) seedDiscipline(tenant *identity.Tenant, name string) *gym.Discipline {
	e.t.Helper()
	d, err := gym.NewDiscipline(tenant.ID, name, testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.disciplines.Save(e.ctx, d))
	return d
}

func (e *testEnv) seedMembership(member *gym.Member, discipline *gym.Discipline, end time.Time) *gym.Membership {
	e.t.Helper()
	ms, err := gym.NewMembership(member.TenantID, member.ID, discipline.ID, gym.MembershipTerms{
		StartDate:  end.AddDate(0, -1, 0),
		EndDate:    end,
		AmountPaid: decimal.NewFromInt(15000),
	}, testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.memberships.Save(e.ctx, ms))
	return ms
}

func (e *testEnv) attemptsOf(member *gym.Member) []notification.Attempt {
	e.t.Helper()
	rows, err := e.attempts.FindByMember(e.ctx, member.TenantID, member.ID, 50)
	require.NoError(e.t, err)
	return rows
}

func countOutcome(rows []notification.Attempt, outcome notification.Outcome) int {
	n := 0
	for _, r := range rows {
		if r.Outcome == outcome {
			n++
		}
	}
	return n
}

// daysFromToday returns local midnight n days after testNow
func daysFromToday(n int) time.Time {
	return shared.StartOfDay(testNow, time.UTC).AddDate(0, 0, n)
}
