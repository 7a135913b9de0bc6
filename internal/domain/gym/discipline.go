package gym

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// Discipline is a class or activity a membership grants access to
type Discipline struct {
	shared.TenantAggregateRoot
	Name     string
	IsActive bool
}

// NewDiscipline creates an active discipline
func NewDiscipline(tenantID uuid.UUID, name string, now time.Time) (*Discipline, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Discipline name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Discipline name cannot exceed 100 characters")
	}
	return &Discipline{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, now),
		Name:                name,
		IsActive:            true,
	}, nil
}
