package gym

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/shopspring/decimal"
)

// CreateMemberInput represents a request to enroll a member
type CreateMemberInput struct {
	Code            string `json:"code" binding:"required,min=1,max=50"`
	FirstName       string `json:"first_name" binding:"required,min=1,max=100"`
	LastName        string `json:"last_name" binding:"max=100"`
	RecipientHandle string `json:"recipient_handle" binding:"max=100"`
}

// LinkRecipientInput represents a request to attach a messaging handle to a member
type LinkRecipientInput struct {
	Handle string `json:"handle" binding:"required,min=1,max=100"`
}

// MemberResponse represents a member in API responses
type MemberResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Code         string    `json:"code"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsActive     bool      `json:"is_active"`
	HasRecipient bool      `json:"has_recipient"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToMemberResponse converts a domain member. The recipient handle itself is not exposed.
func ToMemberResponse(m *gym.Member) MemberResponse {
	return MemberResponse{
		ID:           m.ID,
		TenantID:     m.TenantID,
		Code:         m.Code,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		IsActive:     m.IsActive,
		HasRecipient: m.HasRecipient(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// CreateDisciplineInput represents a request to create a discipline
type CreateDisciplineInput struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// DisciplineResponse represents a discipline in API responses
type DisciplineResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDisciplineResponse converts a domain discipline
func ToDisciplineResponse(d *gym.Discipline) DisciplineResponse {
	return DisciplineResponse{
		ID:        d.ID,
		TenantID:  d.TenantID,
		Name:      d.Name,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
	}
}

// CreateMembershipInput represents a membership purchase.
// Either Months or EndDate sets the end; StartDate defaults to now.
type CreateMembershipInput struct {
	MemberID      uuid.UUID       `json:"member_id" binding:"required"`
	DisciplineID  uuid.UUID       `json:"discipline_id" binding:"required"`
	StartDate     *time.Time      `json:"start_date"`
	EndDate       *time.Time      `json:"end_date"`
	Months        int             `json:"months" binding:"min=0,max=36"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// RenewMembershipInput represents a renewal of an existing membership
type RenewMembershipInput struct {
	Months        int             `json:"months" binding:"required,min=1,max=36"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// MembershipResponse represents a membership in API responses
type MembershipResponse struct {
	ID            uuid.UUID            `json:"id"`
	TenantID      uuid.UUID            `json:"tenant_id"`
	MemberID      uuid.UUID            `json:"member_id"`
	DisciplineID  uuid.UUID            `json:"discipline_id"`
	StartDate     time.Time            `json:"start_date"`
	EndDate       time.Time            `json:"end_date"`
	Status        gym.MembershipStatus `json:"status"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	PaymentMethod string               `json:"payment_method,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	RenewedFromID *uuid.UUID           `json:"renewed_from_id,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// ToMembershipResponse converts a domain membership
func ToMembershipResponse(m *gym.Membership) MembershipResponse {
	return MembershipResponse{
		ID:            m.ID,
		TenantID:      m.TenantID,
		MemberID:      m.MemberID,
		DisciplineID:  m.DisciplineID,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Status:        m.Status,
		AmountPaid:    m.AmountPaid,
		PaymentMethod: m.PaymentMethod,
		Notes:         m.Notes,
		RenewedFromID: m.RenewedFromID,
		CreatedAt:     m.CreatedAt,
	}
}

// RenewResult holds both sides of a renewal
type RenewResult struct {
	Previous MembershipResponse `json:"previous"`
	Current  MembershipResponse `json:"current"`
}

// CheckInInput represents a member scanning in at the front desk
type CheckInInput struct {
	Code  string `json:"code" binding:"required,min=1,max=50"`
	Notes string `json:"notes" binding:"max=500"`
}

// AttendanceResponse represents an attendance row in API responses
type AttendanceResponse struct {
	ID          uuid.UUID `json:"id"`
	MemberID    uuid.UUID `json:"member_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
	CheckInDate string    `json:"check_in_date"`
	Notes       string    `json:"notes,omitempty"`
}

// CheckInResult is returned on an accepted check-in
type CheckInResult struct {
	Attendance     AttendanceResponse     `json:"attendance"`
	Member         gym.MemberSnapshot     `json:"member"`
	Membership     gym.MembershipSnapshot `json:"membership"`
	DaysLeft       int                    `json:"days_left"`
	Warning        bool                   `json:"warning"`
	WarningMessage string                 `json:"warning_message,omitempty"`
}
