package gym

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// Member is a person enrolled in a gym organization
type Member struct {
	shared.TenantAggregateRoot
	Code            string
	FirstName       string
	LastName        string
	IsActive        bool
	RecipientHandle *string // opaque handle on the messaging channel
}

// MemberSnapshot is a read-only view of a member returned to callers
type MemberSnapshot struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	IsActive  bool      `json:"is_active"`
}

// NewMember creates an active member
func NewMember(tenantID uuid.UUID, code, firstName, lastName string, now time.Time) (*Member, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Member code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Member code cannot exceed 50 characters")
	}
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Member first name cannot be empty")
	}

	m := &Member{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, now),
		Code:                code,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		IsActive:            true,
	}
	m.Record(NewMemberCreatedEvent(m))
	return m, nil
}

// FullName returns first and last name joined
func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// HasRecipient reports whether the member can be reached on the messaging channel
func (m *Member) HasRecipient() bool {
	return m.RecipientHandle != nil && strings.TrimSpace(*m.RecipientHandle) != ""
}

// Recipient returns the messaging handle or an empty string
func (m *Member) Recipient() string {
	if m.RecipientHandle == nil {
		return ""
	}
	return strings.TrimSpace(*m.RecipientHandle)
}

// LinkRecipient stores the externally issued messaging handle
func (m *Member) LinkRecipient(handle string, now time.Time) error {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient handle cannot be empty")
	}
	if len(handle) > 100 {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient handle cannot exceed 100 characters")
	}

	m.RecipientHandle = &handle
	m.Touch(now)
	m.Record(NewMemberRecipientLinkedEvent(m, now))
	return nil
}

// Deactivate blocks the member from checking in
func (m *Member) Deactivate(now time.Time) error {
	if !m.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Member is already inactive")
	}
	m.IsActive = false
	m.Touch(now)
	return nil
}

// Activate lets an inactive member check in again
func (m *Member) Activate(now time.Time) error {
	if m.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Member is already active")
	}
	m.IsActive = true
	m.Touch(now)
	return nil
}

// Snapshot returns a copy safe to hand to callers
func (m *Member) Snapshot() MemberSnapshot {
	return MemberSnapshot{
		ID:        m.ID,
		Code:      m.Code,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		IsActive:  m.IsActive,
	}
}
