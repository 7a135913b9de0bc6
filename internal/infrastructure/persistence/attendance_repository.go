package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAttendanceRepository implements gym.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindFirstBetween returns the earliest attendance of the member with checked_in_at in [from, to)
func (r *GormAttendanceRepository) FindFirstBetween(ctx context.Context, tenantID, memberID uuid.UUID, from, to time.Time) (*gym.Attendance, error) {
	var model models.AttendanceModel
	if err := r.db.WithContext(ctx).
		Scopes(TenantScope(tenantID)).
		Where("member_id = ? AND checked_in_at >= ? AND checked_in_at < ?", memberID, from.UTC(), to.UTC()).
		Order("checked_in_at ASC").
		Take(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Create inserts the attendance row. The (tenant, member, day) unique index
// turns a concurrent second check-in into shared.ErrConflict.
func (r *GormAttendanceRepository) Create(ctx context.Context, attendance *gym.Attendance) error {
	model := models.AttendanceModelFromDomain(attendance)
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// Ensure GormAttendanceRepository implements gym.AttendanceRepository
var _ gym.AttendanceRepository = (*GormAttendanceRepository)(nil)
