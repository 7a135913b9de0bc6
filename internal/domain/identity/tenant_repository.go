package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository stores gym organizations. Lookups that miss return shared.ErrNotFound.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	// FindByIDs skips IDs that do not exist
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tenant, error)
	// FindWithMessagingEnabled lists active tenants whose bot is switched on; used at startup
	FindWithMessagingEnabled(ctx context.Context) ([]Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
}
