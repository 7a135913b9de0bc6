package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const defaultAttemptHistoryLimit = 50

// GormNotificationAttemptRepository implements notification.AttemptRepository using GORM
type GormNotificationAttemptRepository struct {
	db *gorm.DB
}

// NewGormNotificationAttemptRepository creates a new GormNotificationAttemptRepository
func NewGormNotificationAttemptRepository(db *gorm.DB) *GormNotificationAttemptRepository {
	return &GormNotificationAttemptRepository{db: db}
}

// ExistsSent reports whether a SENT attempt for member and category has sent_at in [from, to)
func (r *GormNotificationAttemptRepository) ExistsSent(ctx context.Context, tenantID, memberID uuid.UUID, category notification.Category, from, to time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.NotificationAttemptModel{}).
		Scopes(TenantScope(tenantID)).
		Where("member_id = ? AND category = ? AND outcome = ?", memberID, category, notification.OutcomeSent).
		Where("sent_at >= ? AND sent_at < ?", from.UTC(), to.UTC()).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create appends an attempt to the ledger
func (r *GormNotificationAttemptRepository) Create(ctx context.Context, attempt *notification.Attempt) error {
	model := models.NotificationAttemptModelFromDomain(attempt)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// FindByMember returns a member's attempts newest first
func (r *GormNotificationAttemptRepository) FindByMember(ctx context.Context, tenantID, memberID uuid.UUID, limit int) ([]notification.Attempt, error) {
	if limit <= 0 {
		limit = defaultAttemptHistoryLimit
	}
	var attemptModels []models.NotificationAttemptModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("member_id = ?", memberID).
		Order("sent_at DESC").
		Limit(limit).
		Find(&attemptModels).Error; err != nil {
		return nil, err
	}

	attempts := make([]notification.Attempt, len(attemptModels))
	for i, model := range attemptModels {
		attempts[i] = *model.ToDomain()
	}
	return attempts, nil
}

// Ensure GormNotificationAttemptRepository implements notification.AttemptRepository
var _ notification.AttemptRepository = (*GormNotificationAttemptRepository)(nil)
