package gym

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AttendanceLedger answers whether a member already checked in today
type AttendanceLedger interface {
	HasCheckedInToday(ctx context.Context, tenantID, memberID uuid.UUID) (*gym.Attendance, error)
	Location() *time.Location
}

// CheckInService guards the front desk: one accepted check-in per member and day
type CheckInService struct {
	members     gym.MemberRepository
	memberships gym.MembershipRepository
	attendance  gym.AttendanceRepository
	tenants     identity.TenantRepository
	ledger      AttendanceLedger
	clock       shared.Clock
	metrics     *telemetry.GymMetrics
	logger      *zap.Logger
}

// NewCheckInService creates a new CheckInService
func NewCheckInService(
	members gym.MemberRepository,
	memberships gym.MembershipRepository,
	attendance gym.AttendanceRepository,
	tenants identity.TenantRepository,
	ledger AttendanceLedger,
	clock shared.Clock,
	metrics *telemetry.GymMetrics,
	logger *zap.Logger,
) *CheckInService {
	return &CheckInService{
		members:     members,
		memberships: memberships,
		attendance:  attendance,
		tenants:     tenants,
		ledger:      ledger,
		clock:       clock,
		metrics:     metrics,
		logger:      logger,
	}
}

// CheckIn registers the member identified by input.Code. A second scan on the
// same local day returns *gym.AlreadyCheckedInError with the first scan's time.
func (s *CheckInService) CheckIn(ctx context.Context, tenantID uuid.UUID, input CheckInInput) (*CheckInResult, error) {
	err := validateInput(input)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "check_in", "register",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithAttribute(telemetry.SpanAttrMemberCode, input.Code),
	)
	defer span.End()

	var result *CheckInResult
	labels := telemetry.OperationLabels("check_in", map[string]string{
		telemetry.ProfilingLabelTenantID: tenantID.String(),
	})
	telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
		result, err = s.checkIn(ctx, tenantID, input)
	})
	switch {
	case err == nil:
		s.metrics.RecordCheckIn(ctx, tenantID, telemetry.CheckInAccepted)
	case isAlreadyCheckedIn(err):
		s.metrics.RecordCheckIn(ctx, tenantID, telemetry.CheckInAlreadyCheckedIn)
	default:
		telemetry.RecordError(span, err)
		s.metrics.RecordCheckIn(ctx, tenantID, telemetry.CheckInRejected)
	}
	return result, err
}

func (s *CheckInService) checkIn(ctx context.Context, tenantID uuid.UUID, input CheckInInput) (*CheckInResult, error) {
	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	member, err := s.members.FindByCode(ctx, tenantID, input.Code)
	if err != nil {
		return nil, mapNotFound(err, "Member")
	}
	if !member.IsActive {
		return nil, shared.NewDomainError("MEMBER_INACTIVE", "Member is inactive")
	}

	membership, err := s.memberships.FindActiveForMember(ctx, tenantID, member.ID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NO_ACTIVE_MEMBERSHIP", "Member has no active membership")
		}
		return nil, fmt.Errorf("failed to load active membership: %w", err)
	}

	existing, err := s.ledger.HasCheckedInToday(ctx, tenantID, member.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, gym.NewAlreadyCheckedInError(existing.CheckedInAt, s.ledger.Location(), member.Snapshot())
	}

	now := s.clock.Now()
	attendance := gym.NewAttendance(tenantID, member.ID, now, s.ledger.Location(), input.Notes)
	if err := s.attendance.Create(ctx, attendance); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, s.lostRace(ctx, tenantID, member, err)
		}
		return nil, fmt.Errorf("failed to record attendance: %w", err)
	}

	daysLeft := membership.DaysLeft(now)
	result := &CheckInResult{
		Attendance: AttendanceResponse{
			ID:          attendance.ID,
			MemberID:    attendance.MemberID,
			CheckedInAt: attendance.CheckedInAt,
			CheckInDate: attendance.CheckInDate,
			Notes:       attendance.Notes,
		},
		Member:     member.Snapshot(),
		Membership: membership.Snapshot(),
		DaysLeft:   daysLeft,
		Warning:    membership.NeedsExpiryWarning(now),
	}
	if result.Warning {
		result.WarningMessage = fmt.Sprintf("Membership ends in %d days", daysLeft)
	}

	s.logger.Info("Member checked in",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", member.ID.String()),
		zap.Int("days_left", daysLeft),
		zap.Bool("warning", result.Warning))
	return result, nil
}

// lostRace reports the concurrent winner's check-in after the store rejected ours
func (s *CheckInService) lostRace(ctx context.Context, tenantID uuid.UUID, member *gym.Member, cause error) error {
	winner, err := s.ledger.HasCheckedInToday(ctx, tenantID, member.ID)
	if err != nil || winner == nil {
		s.logger.Warn("Attendance conflict without a readable winner",
			zap.String("member_id", member.ID.String()),
			zap.Error(err))
		return cause
	}
	return gym.NewAlreadyCheckedInError(winner.CheckedInAt, s.ledger.Location(), member.Snapshot())
}

func isAlreadyCheckedIn(err error) bool {
	var target *gym.AlreadyCheckedInError
	return errors.As(err, &target)
}
