package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMemberRepository implements gym.MemberRepository using GORM
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a new GormMemberRepository
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	return &GormMemberRepository{db: db}
}

// FindByID finds a member by ID within a tenant
func (r *GormMemberRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*gym.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a member by the code printed on their card
func (r *GormMemberRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*gym.Member, error) {
	var model models.MemberModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("code = ?", strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if a member code is already taken in the tenant
func (r *GormMemberRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.MemberModel{}).
		Scopes(TenantScope(tenantID)).
		Where("code = ?", strings.TrimSpace(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a member
func (r *GormMemberRepository) Save(ctx context.Context, member *gym.Member) error {
	model := models.MemberModelFromDomain(member)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Ensure GormMemberRepository implements gym.MemberRepository
var _ gym.MemberRepository = (*GormMemberRepository)(nil)
