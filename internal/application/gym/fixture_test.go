package gym

import (
	"context"
	"testing"
	"time"

	notifyapp "github.com/gymdesk/backend/internal/application/notification"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
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

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// published returns the event types passed to every Publish call
func (m *MockEventPublisher) published() []string {
	var types []string
	for _, call := range m.Calls {
		if call.Method != "Publish" {
			continue
		}
		for _, evt := range call.Arguments.Get(1).([]shared.DomainEvent) {
			types = append(types, evt.EventType())
		}
	}
	return types
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

type testEnv struct {
	t   *testing.T
	ctx context.Context

	tenants     *persistence.GormTenantRepository
	members     *persistence.GormMemberRepository
	disciplines *persistence.GormDisciplineRepository
	memberships *persistence.GormMembershipRepository
	attendance  *persistence.GormAttendanceRepository
	attempts    *persistence.GormNotificationAttemptRepository

	clock     *shared.FixedClock
	publisher *MockEventPublisher
	ledger    *notifyapp.DedupLedger

	tenant *identity.Tenant
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	env := &testEnv{
		t:           t,
		ctx:         context.Background(),
		tenants:     persistence.NewGormTenantRepository(db),
		members:     persistence.NewGormMemberRepository(db),
		disciplines: persistence.NewGormDisciplineRepository(db),
		memberships: persistence.NewGormMembershipRepository(db),
		attendance:  persistence.NewGormAttendanceRepository(db),
		attempts:    persistence.NewGormNotificationAttemptRepository(db),
		clock:       &shared.FixedClock{At: testNow},
		publisher:   &MockEventPublisher{},
	}
	env.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	env.ledger = notifyapp.NewDedupLedger(env.attempts, env.attendance, env.clock, time.UTC, zap.NewNop())

	tenant, err := identity.NewTenant("GYM1", "Iron Temple", testNow)
	require.NoError(t, err)
	require.NoError(t, env.tenants.Save(env.ctx, tenant))
	env.tenant = tenant
	return env
}

func (e *testEnv) memberService() *MemberService {
	return NewMemberService(e.members, e.tenants, e.publisher, e.clock, zap.NewNop())
}

func (e *testEnv) disciplineService() *DisciplineService {
	return NewDisciplineService(e.disciplines, e.tenants, e.clock, zap.NewNop())
}

func (e *testEnv) membershipService() *MembershipService {
	return NewMembershipService(e.memberships, e.members, e.disciplines, e.tenants, e.publisher, e.clock, zap.NewNop())
}

func (e *testEnv) checkInService() *CheckInService {
	return NewCheckInService(e.members, e.memberships, e.attendance, e.tenants, e.ledger, e.clock, nil, zap.NewNop())
}

func (e *testEnv) suspendTenant() {
	e.t.Helper()
	require.NoError(e.t, e.tenant.Suspend(testNow))
	require.NoError(e.t, e.tenants.Save(e.ctx, e.tenant))
}

func (e *testEnv) seedMember(code string) *gym.Member {
	e.t.Helper()
	member, err := gym.NewMember(e.tenant.ID, code, "Lucia", "Paz", testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.members.Save(e.ctx, member))
	return member
}

func (e *testEnv) seedDiscipline(name string) *gym.Discipline {
	e.t.Helper()
	d, err := gym.NewDiscipline(e.tenant.ID, name, testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.disciplines.Save(e.ctx, d))
	return d
}

func (e *testEnv) seedMembership(member *gym.Member, discipline *gym.Discipline, end time.Time) *gym.Membership {
	e.t.Helper()
	ms, err := gym.NewMembership(e.tenant.ID, member.ID, discipline.ID, gym.MembershipTerms{
		StartDate:  end.AddDate(0, -1, 0),
		EndDate:    end,
		AmountPaid: decimal.NewFromInt(15000),
	}, testNow)
	require.NoError(e.t, err)
	require.NoError(e.t, e.memberships.Save(e.ctx, ms))
	return ms
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	require.Equal(t, code, de.Code, de.Message)
}
