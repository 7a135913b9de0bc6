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

// DisciplineService handles discipline catalog operations
type DisciplineService struct {
	disciplines gym.DisciplineRepository
	tenants     identity.TenantRepository
	clock       shared.Clock
	logger      *zap.Logger
}

// NewDisciplineService creates a new DisciplineService
func NewDisciplineService(
	disciplines gym.DisciplineRepository,
	tenants identity.TenantRepository,
	clock shared.Clock,
	logger *zap.Logger,
) *DisciplineService {
	return &DisciplineService{
		disciplines: disciplines,
		tenants:     tenants,
		clock:       clock,
		logger:      logger,
	}
}

// Create adds a discipline. Names are unique per tenant.
func (s *DisciplineService) Create(ctx context.Context, tenantID uuid.UUID, input CreateDisciplineInput) (*DisciplineResponse, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if _, err := operationalTenant(ctx, s.tenants, tenantID); err != nil {
		return nil, err
	}

	discipline, err := gym.NewDiscipline(tenantID, input.Name, s.clock.Now())
	if err != nil {
		return nil, err
	}

	exists, err := s.disciplines.ExistsByName(ctx, tenantID, discipline.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check discipline name: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("CONFLICT", "Discipline with this name already exists")
	}

	if err := s.disciplines.Save(ctx, discipline); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, shared.NewDomainError("CONFLICT", "Discipline with this name already exists")
		}
		return nil, fmt.Errorf("failed to save discipline: %w", err)
	}

	s.logger.Info("Discipline created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("discipline_id", discipline.ID.String()),
		zap.String("name", discipline.Name))

	response := ToDisciplineResponse(discipline)
	return &response, nil
}
