package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMembershipRepository implements gym.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByID finds a membership by ID within a tenant
func (r *GormMembershipRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*gym.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActiveForMember returns the ACTIVE membership with the latest end date
func (r *GormMembershipRepository) FindActiveForMember(ctx context.Context, tenantID, memberID uuid.UUID) (*gym.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("member_id = ? AND status = ?", memberID, gym.MembershipStatusActive).
		Order("end_date DESC").
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActiveForMemberDiscipline returns the ACTIVE membership of member in discipline
func (r *GormMembershipRepository) FindActiveForMemberDiscipline(ctx context.Context, tenantID, memberID, disciplineID uuid.UUID) (*gym.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("member_id = ? AND discipline_id = ? AND status = ?", memberID, disciplineID, gym.MembershipStatusActive).
		Order("end_date DESC").
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindActiveEndingBetween loads ACTIVE memberships of every tenant with end_date in [from, to).
// This is the only query that is not tenant-scoped; callers process each row under its own tenant.
func (r *GormMembershipRepository) FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]gym.Membership, error) {
	var membershipModels []models.MembershipModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND end_date >= ? AND end_date < ?", gym.MembershipStatusActive, from.UTC(), to.UTC()).
		Order("tenant_id ASC, end_date ASC").
		Find(&membershipModels).Error; err != nil {
		return nil, err
	}

	memberships := make([]gym.Membership, len(membershipModels))
	for i, model := range membershipModels {
		memberships[i] = *model.ToDomain()
	}
	return memberships, nil
}

// Save creates or updates a membership. A second ACTIVE row for the same
// member and discipline returns shared.ErrConflict.
func (r *GormMembershipRepository) Save(ctx context.Context, membership *gym.Membership) error {
	model := models.MembershipModelFromDomain(membership)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Ensure GormMembershipRepository implements gym.MembershipRepository
var _ gym.MembershipRepository = (*GormMembershipRepository)(nil)
