package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/shopspring/decimal"
)

// MemberModel is the persistence model for the Member domain entity.
type MemberModel struct {
	VersionedModel
	TenantID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_member_tenant_code,priority:1"`
	Code            string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_member_tenant_code,priority:2"`
	FirstName       string    `gorm:"type:varchar(100);not null"`
	LastName        string    `gorm:"type:varchar(100)"`
	IsActive        bool      `gorm:"not null;default:true"`
	RecipientHandle *string   `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// ToDomain converts the persistence model to a domain Member entity.
func (m *MemberModel) ToDomain() *gym.Member {
	member := &gym.Member{
		Code:            m.Code,
		FirstName:       m.FirstName,
		LastName:        m.LastName,
		IsActive:        m.IsActive,
		RecipientHandle: m.RecipientHandle,
	}
	member.BaseAggregateRoot = m.aggregate()
	member.TenantID = m.TenantID
	return member
}

// FromDomain populates the persistence model from a domain Member entity.
func (m *MemberModel) FromDomain(member *gym.Member) {
	m.setAggregate(member.BaseAggregateRoot)
	m.TenantID = member.TenantID
	m.Code = member.Code
	m.FirstName = member.FirstName
	m.LastName = member.LastName
	m.IsActive = member.IsActive
	m.RecipientHandle = member.RecipientHandle
}

// MemberModelFromDomain creates a new persistence model from a domain Member entity.
func MemberModelFromDomain(member *gym.Member) *MemberModel {
	m := &MemberModel{}
	m.FromDomain(member)
	return m
}

// DisciplineModel is the persistence model for the Discipline domain entity.
type DisciplineModel struct {
	VersionedModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_discipline_tenant_name,priority:1"`
	Name     string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_discipline_tenant_name,priority:2"`
	IsActive bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (DisciplineModel) TableName() string {
	return "disciplines"
}

// ToDomain converts the persistence model to a domain Discipline entity.
func (m *DisciplineModel) ToDomain() *gym.Discipline {
	d := &gym.Discipline{
		Name:     m.Name,
		IsActive: m.IsActive,
	}
	d.BaseAggregateRoot = m.aggregate()
	d.TenantID = m.TenantID
	return d
}

// FromDomain populates the persistence model from a domain Discipline entity.
func (m *DisciplineModel) FromDomain(d *gym.Discipline) {
	m.setAggregate(d.BaseAggregateRoot)
	m.TenantID = d.TenantID
	m.Name = d.Name
	m.IsActive = d.IsActive
}

// DisciplineModelFromDomain creates a new persistence model from a domain Discipline entity.
func DisciplineModelFromDomain(d *gym.Discipline) *DisciplineModel {
	m := &DisciplineModel{}
	m.FromDomain(d)
	return m
}

// MembershipModel is the persistence model for the Membership domain entity.
// The partial unique index keeps at most one ACTIVE row per member and discipline.
type MembershipModel struct {
	VersionedModel
	TenantID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	MemberID      uuid.UUID            `gorm:"type:uuid;not null;index;uniqueIndex:idx_membership_one_active,priority:1,where:status = 'ACTIVE'"`
	DisciplineID  uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_membership_one_active,priority:2"`
	StartDate     time.Time            `gorm:"not null"`
	EndDate       time.Time            `gorm:"not null;index:idx_membership_status_end,priority:2"`
	Status        gym.MembershipStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_membership_status_end,priority:1"`
	AmountPaid    decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod string               `gorm:"type:varchar(50)"`
	Notes         string               `gorm:"type:text"`
	RenewedFromID *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership entity.
func (m *MembershipModel) ToDomain() *gym.Membership {
	ms := &gym.Membership{
		MemberID:      m.MemberID,
		DisciplineID:  m.DisciplineID,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Status:        m.Status,
		AmountPaid:    m.AmountPaid,
		PaymentMethod: m.PaymentMethod,
		Notes:         m.Notes,
		RenewedFromID: m.RenewedFromID,
	}
	ms.BaseAggregateRoot = m.aggregate()
	ms.TenantID = m.TenantID
	return ms
}

// FromDomain populates the persistence model from a domain Membership entity.
func (m *MembershipModel) FromDomain(ms *gym.Membership) {
	m.setAggregate(ms.BaseAggregateRoot)
	m.TenantID = ms.TenantID
	m.MemberID = ms.MemberID
	m.DisciplineID = ms.DisciplineID
	m.StartDate = ms.StartDate.UTC()
	m.EndDate = ms.EndDate.UTC()
	m.Status = ms.Status
	m.AmountPaid = ms.AmountPaid
	m.PaymentMethod = ms.PaymentMethod
	m.Notes = ms.Notes
	m.RenewedFromID = ms.RenewedFromID
}

// MembershipModelFromDomain creates a new persistence model from a domain Membership entity.
func MembershipModelFromDomain(ms *gym.Membership) *MembershipModel {
	m := &MembershipModel{}
	m.FromDomain(ms)
	return m
}

// AttendanceModel is the persistence model for the Attendance entity.
// The unique index is the store-level backstop for one check-in per member and day.
type AttendanceModel struct {
	RecordModel
	TenantID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_member_day,priority:1"`
	MemberID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_member_day,priority:2;index:idx_attendance_member_at,priority:1"`
	CheckedInAt time.Time `gorm:"not null;index:idx_attendance_member_at,priority:2"`
	CheckInDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_attendance_member_day,priority:3"`
	Notes       string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AttendanceModel) TableName() string {
	return "attendances"
}

// ToDomain converts the persistence model to a domain Attendance entity.
func (m *AttendanceModel) ToDomain() *gym.Attendance {
	return &gym.Attendance{
		BaseEntity:  m.entity(),
		TenantID:    m.TenantID,
		MemberID:    m.MemberID,
		CheckedInAt: m.CheckedInAt,
		CheckInDate: formatDate(m.CheckInDate),
		Notes:       m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Attendance entity.
func (m *AttendanceModel) FromDomain(a *gym.Attendance) {
	m.setEntity(a.BaseEntity)
	m.TenantID = a.TenantID
	m.MemberID = a.MemberID
	m.CheckedInAt = a.CheckedInAt.UTC()
	m.CheckInDate = parseDate(a.CheckInDate)
	m.Notes = a.Notes
}

// AttendanceModelFromDomain creates a new persistence model from a domain Attendance entity.
func AttendanceModelFromDomain(a *gym.Attendance) *AttendanceModel {
	m := &AttendanceModel{}
	m.FromDomain(a)
	return m
}
