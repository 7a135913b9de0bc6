package gym

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MemberService handles member enrollment and messaging links
type MemberService struct {
	members        gym.MemberRepository
	tenants        identity.TenantRepository
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(
	members gym.MemberRepository,
	tenants identity.TenantRepository,
	eventPublisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *MemberService {
	return &MemberService{
		members:        members,
		tenants:        tenants,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// Create enrolls a member. A handle given at enrollment triggers the welcome message.
func (s *MemberService) Create(ctx context.Context, tenantID uuid.UUID, input CreateMemberInput) (*MemberResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	exists, err := s.members.ExistsByCode(ctx, tenantID, input.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check member code: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("CONFLICT", "Member with this code already exists")
	}

	now := s.clock.Now()
	member, err := gym.NewMember(tenantID, input.Code, input.FirstName, input.LastName, now)
	if err != nil {
		return nil, err
	}
	if input.RecipientHandle != "" {
		if err := member.LinkRecipient(input.RecipientHandle, now); err != nil {
			return nil, err
		}
	}

	if err := s.members.Save(ctx, member); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewDomainError("CONFLICT", "Member with this code already exists")
		}
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.logger.Info("Member created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", member.ID.String()),
		zap.String("code", member.Code))

	publishEvents(ctx, s.eventPublisher, s.logger, member)
	response := ToMemberResponse(member)
	return &response, nil
}

// LinkRecipient stores the member's messaging handle and triggers the welcome message
func (s *MemberService) LinkRecipient(ctx context.Context, tenantID, memberID uuid.UUID, input LinkRecipientInput) (*MemberResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	member, err := s.members.FindByID(ctx, tenantID, memberID)
	if err != nil {
		return nil, mapNotFound(err, "Member")
	}
	if err := member.LinkRecipient(input.Handle, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.logger.Info("Member recipient linked",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", member.ID.String()))

	publishEvents(ctx, s.eventPublisher, s.logger, member)
	response := ToMemberResponse(member)
	return &response, nil
}

// Deactivate blocks the member from checking in
func (s *MemberService) Deactivate(ctx context.Context, tenantID, memberID uuid.UUID) (*MemberResponse, error) {
	member, err := s.members.FindByID(ctx, tenantID, memberID)
	if err != nil {
		return nil, mapNotFound(err, "Member")
	}
	if err := member.Deactivate(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.members.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to save member: %w", err)
	}

	s.logger.Info("Member deactivated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("member_id", member.ID.String()))

	response := ToMemberResponse(member)
	return &response, nil
}
