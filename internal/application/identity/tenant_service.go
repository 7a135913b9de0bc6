package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TenantService handles gym organization management operations
type TenantService struct {
	tenantRepo     identity.TenantRepository
	eventPublisher shared.EventPublisher
	clock          shared.Clock
	logger         *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(
	tenantRepo identity.TenantRepository,
	eventPublisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo:     tenantRepo,
		eventPublisher: eventPublisher,
		clock:          clock,
		logger:         logger,
	}
}

// Create creates a new tenant
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*TenantDTO, error) {
	s.logger.Info("Creating new tenant",
		zap.String("code", input.Code),
		zap.String("name", input.Name))

	exists, err := s.tenantRepo.ExistsByCode(ctx, input.Code)
	if err != nil {
		s.logger.Error("Failed to check tenant code existence", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check code availability")
	}
	if exists {
		return nil, shared.NewDomainError("CONFLICT", "Tenant code already exists")
	}

	now := s.clock.Now()
	tenant, err := identity.NewTenant(input.Code, input.Name, now)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != "" {
		if err := tenant.SetDisplayName(input.DisplayName, now); err != nil {
			return nil, err
		}
	}
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Unknown timezone")
		}
		tenant.Timezone = input.Timezone
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewDomainError("CONFLICT", "Tenant code already exists")
		}
		s.logger.Error("Failed to create tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create tenant")
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant created successfully",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))

	return toTenantDTO(tenant), nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	tenant, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenantDTO(tenant), nil
}

// UpdateMessaging stores the messaging account of a tenant. The live channel
// is started or stopped by a subscriber of the emitted event.
func (s *TenantService) UpdateMessaging(ctx context.Context, id uuid.UUID, input UpdateMessagingInput) (*TenantDTO, error) {
	tenant, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	settings := identity.MessagingSettings{BotToken: input.BotToken, Enabled: input.Enabled}
	if err := tenant.UpdateMessaging(settings, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to update tenant messaging", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update messaging")
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant messaging updated",
		zap.String("tenant_id", id.String()),
		zap.Bool("enabled", tenant.Messaging.IsConfigured()))

	return toTenantDTO(tenant), nil
}

// Activate activates a tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, "activated", (*identity.Tenant).Activate)
}

// Deactivate deactivates a tenant
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, "deactivated", (*identity.Tenant).Deactivate)
}

// Suspend suspends a tenant
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, id, "suspended", (*identity.Tenant).Suspend)
}

func (s *TenantService) transition(ctx context.Context, id uuid.UUID, verb string, change func(*identity.Tenant, time.Time) error) (*TenantDTO, error) {
	tenant, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := change(tenant, s.clock.Now()); err != nil {
		return nil, err
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		s.logger.Error("Failed to save tenant", zap.String("action", verb), zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update tenant")
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant "+verb, zap.String("tenant_id", id.String()))

	return toTenantDTO(tenant), nil
}

func (s *TenantService) find(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Organization not found")
		}
		s.logger.Error("Failed to find tenant", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to find tenant")
	}
	return tenant, nil
}

// publish hands the tenant's pending events to the bus. Delivery failures are
// logged; the state change is already stored.
func (s *TenantService) publish(ctx context.Context, tenant *identity.Tenant) {
	events := tenant.PullEvents()
	if len(events) == 0 || s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish tenant events",
			zap.String("tenant_id", tenant.ID.String()),
			zap.Error(err))
	}
}
