package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/notification"
)

// NotificationAttemptModel is the persistence model for the notification ledger.
// The partial unique index allows at most one non-manual SENT row per member,
// category and day.
type NotificationAttemptModel struct {
	RecordModel
	TenantID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	MemberID     uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_notification_sent_daily,priority:1,where:outcome = 'SENT' AND NOT manual;index:idx_notification_member_sent,priority:1"`
	MembershipID *uuid.UUID            `gorm:"type:uuid"`
	Category     notification.Category `gorm:"type:varchar(20);not null;uniqueIndex:idx_notification_sent_daily,priority:2"`
	Bucket       notification.Bucket   `gorm:"type:varchar(20);not null"`
	Outcome      notification.Outcome  `gorm:"type:varchar(10);not null"`
	SentAt       time.Time             `gorm:"not null;index:idx_notification_member_sent,priority:2"`
	SentDate     time.Time             `gorm:"type:date;not null;uniqueIndex:idx_notification_sent_daily,priority:3"`
	Message      string                `gorm:"type:text"`
	Error        string                `gorm:"type:varchar(1000)"`
	Manual       bool                  `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (NotificationAttemptModel) TableName() string {
	return "notification_attempts"
}

// ToDomain converts the persistence model to a domain Attempt.
func (m *NotificationAttemptModel) ToDomain() *notification.Attempt {
	return &notification.Attempt{
		BaseEntity:   m.entity(),
		TenantID:     m.TenantID,
		MemberID:     m.MemberID,
		MembershipID: m.MembershipID,
		Category:     m.Category,
		Bucket:       m.Bucket,
		Outcome:      m.Outcome,
		SentAt:       m.SentAt,
		SentDate:     formatDate(m.SentDate),
		Message:      m.Message,
		Error:        m.Error,
		Manual:       m.Manual,
	}
}

// FromDomain populates the persistence model from a domain Attempt.
func (m *NotificationAttemptModel) FromDomain(a *notification.Attempt) {
	m.setEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.MemberID = a.MemberID
	m.MembershipID = a.MembershipID
	m.Category = a.Category
	m.Bucket = a.Bucket
	m.Outcome = a.Outcome
	m.SentAt = a.SentAt.UTC()
	m.SentDate = parseDate(a.SentDate)
	m.Message = a.Message
	m.Error = a.Error
	m.Manual = a.Manual
}

// NotificationAttemptModelFromDomain creates a new persistence model from a domain Attempt.
func NotificationAttemptModelFromDomain(a *notification.Attempt) *NotificationAttemptModel {
	m := &NotificationAttemptModel{}
	m.FromDomain(a)
	return m
}

// All returns every model for AutoMigrate in tests and tooling
func All() []any {
	return []any{
		&TenantModel{},
		&MemberModel{},
		&DisciplineModel{},
		&MembershipModel{},
		&AttendanceModel{},
		&NotificationAttemptModel{},
	}
}
