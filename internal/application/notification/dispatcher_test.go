package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingClaims is a ClaimStore whose backend is unreachable
type failingClaims struct{}

func (failingClaims) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("connection refused")
}
func (failingClaims) Release(context.Context, string) error { return nil }
func (failingClaims) Close() error                          { return nil }

func TestDispatcher_Dispatch(t *testing.T) {
	t.Run("member without handle is skipped and nothing is recorded", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		ch := env.connect(tenant)
		member := env.seedMember(tenant, "A-100", "")
		discipline := env.seedDiscipline(tenant, "Crossfit")
		ms := env.seedMembership(member, discipline, daysFromToday(3))

		outcome := env.dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Membership: ms, Discipline: discipline,
			Bucket: notification.BucketExpiringIn3, DaysLeft: 3, UseClaim: true,
		})

		assert.Equal(t, OutcomeSkipped, outcome)
		assert.Empty(t, env.attemptsOf(member))
		ch.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("tenant without channel records a failed attempt", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		member := env.seedMember(tenant, "A-100", "555")

		outcome := env.dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Bucket: notification.BucketWelcome,
		})

		assert.Equal(t, OutcomeFailed, outcome)
		rows := env.attemptsOf(member)
		require.Len(t, rows, 1)
		assert.Equal(t, notification.OutcomeFailed, rows[0].Outcome)
		assert.Contains(t, rows[0].Error, "not configured")
	})

	t.Run("successful send renders and records SENT", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		member := env.seedMember(tenant, "A-100", "555")
		discipline := env.seedDiscipline(tenant, "Crossfit")
		ms := env.seedMembership(member, discipline, daysFromToday(3))

		ch := &MockChannel{}
		ch.On("Send", mock.Anything, "555", mock.MatchedBy(func(text string) bool {
			return strings.Contains(text, "3 days left") && strings.Contains(text, "18/03/2024")
		})).Return(nil).Once()
		env.channels[tenant.ID] = ch

		outcome := env.dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Membership: ms, Discipline: discipline,
			Bucket: notification.BucketExpiringIn3, DaysLeft: 3, UseClaim: true,
		})

		assert.Equal(t, OutcomeSent, outcome)
		ch.AssertExpectations(t)
		rows := env.attemptsOf(member)
		require.Len(t, rows, 1)
		assert.Equal(t, notification.OutcomeSent, rows[0].Outcome)
		assert.Equal(t, notification.CategoryExpiringSoon, rows[0].Category)
		assert.Equal(t, "2024-03-15", rows[0].SentDate)
		require.NotNil(t, rows[0].MembershipID)
		assert.Equal(t, ms.ID, *rows[0].MembershipID)
	})

	t.Run("send error records FAILED and frees the claim", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		member := env.seedMember(tenant, "A-100", "555")

		ch := &MockChannel{}
		ch.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("chat not found")).Once()
		ch.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		env.channels[tenant.ID] = ch

		req := DispatchRequest{Tenant: tenant, Member: member, Bucket: notification.BucketWelcome, UseClaim: true}
		assert.Equal(t, OutcomeFailed, env.dispatcher.Dispatch(env.ctx, req))

		rows := env.attemptsOf(member)
		require.Len(t, rows, 1)
		assert.Contains(t, rows[0].Error, "chat not found")

		// A retry later the same day is allowed to send
		assert.Equal(t, OutcomeSent, env.dispatcher.Dispatch(env.ctx, req))
		assert.Equal(t, 1, countOutcome(env.attemptsOf(member), notification.OutcomeSent))
	})

	t.Run("held claim deduplicates without sending", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		ch := env.connect(tenant)
		member := env.seedMember(tenant, "A-100", "555")

		key := ClaimKey(member.ID.String(), notification.CategoryWelcome, "2024-03-15")
		acquired, err := env.claims.Claim(env.ctx, key, time.Hour)
		require.NoError(t, err)
		require.True(t, acquired)

		outcome := env.dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Bucket: notification.BucketWelcome, UseClaim: true,
		})

		assert.Equal(t, OutcomeDeduplicated, outcome)
		assert.Empty(t, env.attemptsOf(member))
		ch.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("claim store outage does not block delivery", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		ch := env.connect(tenant)
		member := env.seedMember(tenant, "A-100", "555")

		renderer, err := notification.NewRenderer(nil)
		require.NoError(t, err)
		dispatcher := NewDispatcher(env.channels, renderer, env.ledger, env.clock, zap.NewNop(),
			WithSendClaims(failingClaims{}, 0))

		outcome := dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Bucket: notification.BucketWelcome, UseClaim: true,
		})

		assert.Equal(t, OutcomeSent, outcome)
		ch.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("none bucket is skipped", func(t *testing.T) {
		env := newTestEnv(t)
		tenant := env.seedTenant("GYM1")
		member := env.seedMember(tenant, "A-100", "555")

		outcome := env.dispatcher.Dispatch(env.ctx, DispatchRequest{
			Tenant: tenant, Member: member, Bucket: notification.BucketNone,
		})
		assert.Equal(t, OutcomeSkipped, outcome)
	})
}

func TestClaimKey(t *testing.T) {
	assert.Equal(t, "notify:m1:EXPIRED:2024-03-15", ClaimKey("m1", notification.CategoryExpired, "2024-03-15"))
}

func TestDispatcher_ConcurrentSendsProduceOneSentRow(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant("GYM1")
	ch := env.connect(tenant)
	member := env.seedMember(tenant, "A-100", "555")

	results := make(chan DispatchOutcome, 4)
	for range 4 {
		go func() {
			results <- env.dispatcher.Dispatch(env.ctx, DispatchRequest{
				Tenant: tenant, Member: member, Bucket: notification.BucketWelcome, UseClaim: true,
			})
		}()
	}

	sent := 0
	for range 4 {
		if <-results == OutcomeSent {
			sent++
		}
	}

	assert.Equal(t, 1, sent)
	ch.AssertNumberOfCalls(t, "Send", 1)
	assert.Equal(t, 1, countOutcome(env.attemptsOf(member), notification.OutcomeSent))

	ok, err := env.ledger.WasNotifiedToday(env.ctx, tenant.ID, member.ID, notification.CategoryWelcome)
	require.NoError(t, err)
	assert.True(t, ok)
}
