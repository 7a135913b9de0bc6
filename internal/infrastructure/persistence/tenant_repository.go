package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository stores gym organizations in the tenants table
type GormTenantRepository struct {
	db *gorm.DB
}

func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// tenantCode matches codes case-insensitively; codes are stored upper-cased
func tenantCode(code string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code)))
	}
}

func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	return r.first(ctx, func(db *gorm.DB) *gorm.DB { return db.Where("id = ?", id) })
}

func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	return r.first(ctx, tenantCode(code))
}

func (r *GormTenantRepository) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*identity.Tenant, error) {
	var row models.TenantModel
	if err := r.db.WithContext(ctx).Scopes(scope).Take(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return row.ToDomain(), nil
}

// FindByIDs loads the tenants of a sweep batch in one query
func (r *GormTenantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Tenant, error) {
	if len(ids) == 0 {
		return []identity.Tenant{}, nil
	}
	return r.list(r.db.WithContext(ctx).Where("id IN ?", ids))
}

// FindWithMessagingEnabled lists the tenants whose channel must be running
func (r *GormTenantRepository) FindWithMessagingEnabled(ctx context.Context) ([]identity.Tenant, error) {
	return r.list(r.db.WithContext(ctx).
		Where("messaging_enabled AND status = ?", identity.TenantStatusActive).
		Order("code"))
}

func (r *GormTenantRepository) list(query *gorm.DB) ([]identity.Tenant, error) {
	var rows []models.TenantModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Tenant, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save upserts the tenant; a taken code surfaces as shared.ErrConflict
func (r *GormTenantRepository) Save(ctx context.Context, tenant *identity.Tenant) error {
	return translateError(r.db.WithContext(ctx).Save(models.TenantModelFromDomain(tenant)).Error)
}

func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).Scopes(tenantCode(code)).Count(&n).Error
	return n > 0, err
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
