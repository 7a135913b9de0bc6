package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDisciplineRepository implements gym.DisciplineRepository using GORM
type GormDisciplineRepository struct {
	db *gorm.DB
}

// NewGormDisciplineRepository creates a new GormDisciplineRepository
func NewGormDisciplineRepository(db *gorm.DB) *GormDisciplineRepository {
	return &GormDisciplineRepository{db: db}
}

// FindByID finds a discipline by ID within a tenant
func (r *GormDisciplineRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*gym.Discipline, error) {
	var model models.DisciplineModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByName checks case-insensitively whether the tenant already has the discipline
func (r *GormDisciplineRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.DisciplineModel{}).
		Scopes(TenantScope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a discipline
func (r *GormDisciplineRepository) Save(ctx context.Context, discipline *gym.Discipline) error {
	model := models.DisciplineModelFromDomain(discipline)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Ensure GormDisciplineRepository implements gym.DisciplineRepository
var _ gym.DisciplineRepository = (*GormDisciplineRepository)(nil)
