package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// TenantScope applies tenant filtering to GORM queries.
// Panics on uuid.Nil so a missing tenant can never widen a query.
func TenantScope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	if tenantID == uuid.Nil {
		panic("TenantScope called with nil tenant ID - this is a programming error")
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// translateError maps GORM errors onto the domain error taxonomy
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	if isDuplicateKey(err) {
		return shared.ErrConflict
	}
	return err
}

// isDuplicateKey detects unique violations whether or not the dialector translated them
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
