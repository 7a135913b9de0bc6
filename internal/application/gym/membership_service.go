package gym

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// errActiveMembershipExists is returned when a member already holds an ACTIVE
// membership in the discipline
var errActiveMembershipExists = shared.NewDomainError("CONFLICT", "Member already has an active membership for this discipline")

// MembershipService drives the membership lifecycle: purchase, renewal and expiry
type MembershipService struct {
	memberships    gym.MembershipRepository
	members        gym.MemberRepository
	disciplines    gym.DisciplineRepository
	tenants        identity.TenantRepository
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	memberships gym.MembershipRepository,
	members gym.MemberRepository,
	disciplines gym.DisciplineRepository,
	tenants identity.TenantRepository,
	eventPublisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		memberships:    memberships,
		members:        members,
		disciplines:    disciplines,
		tenants:        tenants,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// Create sells a new ACTIVE membership
func (s *MembershipService) Create(ctx context.Context, tenantID uuid.UUID, input CreateMembershipInput) (*MembershipResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.EndDate == nil && input.Months == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Either months or end_date is required")
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "create",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithAttribute(telemetry.SpanAttrMemberID, input.MemberID),
		telemetry.WithAttribute(telemetry.SpanAttrDisciplineID, input.DisciplineID),
	)
	defer span.End()

	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	member, err := s.members.FindByID(ctx, tenantID, input.MemberID)
	if err != nil {
		return nil, mapNotFound(err, "Member")
	}
	if !member.IsActive {
		return nil, shared.NewDomainError("MEMBER_INACTIVE", "Member is inactive")
	}
	if _, err := s.disciplines.FindByID(ctx, tenantID, input.DisciplineID); err != nil {
		return nil, mapNotFound(err, "Discipline")
	}
	if err := s.ensureNoActive(ctx, tenantID, input.MemberID, input.DisciplineID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start := now
	if input.StartDate != nil {
		start = *input.StartDate
	}
	end := gym.AddMonths(start, input.Months)
	if input.EndDate != nil {
		end = *input.EndDate
	}

	membership, err := gym.NewMembership(tenantID, input.MemberID, input.DisciplineID, gym.MembershipTerms{
		StartDate:     start,
		EndDate:       end,
		AmountPaid:    input.AmountPaid,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := s.memberships.Save(ctx, membership); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, errActiveMembershipExists
		}
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	s.logger.Info("Membership created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("membership_id", membership.ID.String()),
		zap.String("member_id", membership.MemberID.String()),
		zap.Time("end_date", membership.EndDate))

	publishEvents(ctx, s.eventPublisher, s.logger, membership)
	response := ToMembershipResponse(membership)
	return &response, nil
}

// Renew expires the membership and sells its replacement starting now.
// The old row is saved first so no reader ever sees two ACTIVE rows; a failure
// between the two writes leaves the member without an active membership.
func (s *MembershipService) Renew(ctx context.Context, tenantID, membershipID uuid.UUID, input RenewMembershipInput) (*RenewResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "membership", "renew",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID),
		telemetry.WithAttribute(telemetry.SpanAttrMembershipID, membershipID),
	)
	defer span.End()

	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	previous, err := s.memberships.FindByID(ctx, tenantID, membershipID)
	if err != nil {
		return nil, mapNotFound(err, "Membership")
	}
	if !previous.IsActive() {
		if err := s.ensureNoActive(ctx, tenantID, previous.MemberID, previous.DisciplineID); err != nil {
			return nil, err
		}
	}

	now := s.clock.Now()
	wasActive := previous.IsActive()
	next, err := previous.Renew(input.Months, input.AmountPaid, input.PaymentMethod, input.Notes, now)
	if err != nil {
		return nil, err
	}

	if wasActive {
		if err := s.memberships.Save(ctx, previous); err != nil {
			telemetry.RecordError(span, err)
			return nil, fmt.Errorf("failed to expire renewed membership: %w", err)
		}
	}
	if err := s.memberships.Save(ctx, next); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Renewal left member without an active membership",
			zap.String("tenant_id", tenantID.String()),
			zap.String("previous_id", previous.ID.String()),
			zap.Error(err))
		if errors.Is(err, shared.ErrConflict) {
			return nil, errActiveMembershipExists
		}
		return nil, fmt.Errorf("failed to save renewed membership: %w", err)
	}

	s.logger.Info("Membership renewed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("previous_id", previous.ID.String()),
		zap.String("membership_id", next.ID.String()),
		zap.Time("end_date", next.EndDate))

	publishEvents(ctx, s.eventPublisher, s.logger, previous)
	publishEvents(ctx, s.eventPublisher, s.logger, next)
	return &RenewResult{
		Previous: ToMembershipResponse(previous),
		Current:  ToMembershipResponse(next),
	}, nil
}

// Expire moves an ACTIVE membership to EXPIRED
func (s *MembershipService) Expire(ctx context.Context, tenantID, membershipID uuid.UUID) (*MembershipResponse, error) {
	membership, err := s.memberships.FindByID(ctx, tenantID, membershipID)
	if err != nil {
		return nil, mapNotFound(err, "Membership")
	}
	if err := membership.Expire(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.memberships.Save(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	s.logger.Info("Membership expired",
		zap.String("tenant_id", tenantID.String()),
		zap.String("membership_id", membership.ID.String()))

	publishEvents(ctx, s.eventPublisher, s.logger, membership)
	response := ToMembershipResponse(membership)
	return &response, nil
}

// GetActive returns the member's ACTIVE membership with the latest end date
func (s *MembershipService) GetActive(ctx context.Context, tenantID, memberID uuid.UUID) (*MembershipResponse, error) {
	membership, err := s.memberships.FindActiveForMember(ctx, tenantID, memberID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Member has no active membership")
		}
		return nil, fmt.Errorf("failed to load active membership: %w", err)
	}
	response := ToMembershipResponse(membership)
	return &response, nil
}

func (s *MembershipService) ensureNoActive(ctx context.Context, tenantID, memberID, disciplineID uuid.UUID) error {
	_, err := s.memberships.FindActiveForMemberDiscipline(ctx, tenantID, memberID, disciplineID)
	switch {
	case err == nil:
		return errActiveMembershipExists
	case errors.Is(err, shared.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to check active membership: %w", err)
	}
}
