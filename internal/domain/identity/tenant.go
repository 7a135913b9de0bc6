package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// TenantStatus represents the status of a gym organization
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended" // Suspended due to payment/violation issues
)

// MessagingSettings holds the outbound messaging account of a tenant.
// BotToken is a secret and is never serialized.
type MessagingSettings struct {
	BotToken string `json:"-"`
	Enabled  bool   `json:"enabled"`
}

// IsConfigured returns true when a live channel can be started from the settings
func (s MessagingSettings) IsConfigured() bool {
	return s.Enabled && strings.TrimSpace(s.BotToken) != ""
}

// Tenant represents a gym organization in the multi-tenant system
type Tenant struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	DisplayName string
	Status      TenantStatus
	// Timezone is informational for clients. Day boundaries for check-ins and
	// notification dedup always use the process zone (scheduler.timezone).
	Timezone  string
	Messaging MessagingSettings
}

// NewTenant creates a new tenant with required fields
func NewTenant(code, name string, now time.Time) (*Tenant, error) {
	if err := validateTenantCode(code); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	tenant := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            TenantStatusActive,
	}

	tenant.Record(NewTenantCreatedEvent(tenant))

	return tenant, nil
}

// Label returns the name shown to members in notifications
func (t *Tenant) Label() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

// SetDisplayName sets the member-facing gym name
func (t *Tenant) SetDisplayName(displayName string, now time.Time) error {
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 200 characters")
	}
	t.DisplayName = strings.TrimSpace(displayName)
	t.Touch(now)
	return nil
}

// UpdateMessaging replaces the messaging account settings.
// A live channel is reconciled asynchronously from the emitted event.
func (t *Tenant) UpdateMessaging(settings MessagingSettings, now time.Time) error {
	settings.BotToken = strings.TrimSpace(settings.BotToken)
	if settings.Enabled && settings.BotToken == "" {
		return shared.NewDomainError("INVALID_MESSAGING", "Bot token is required to enable messaging")
	}
	if len(settings.BotToken) > 200 {
		return shared.NewDomainError("INVALID_MESSAGING", "Bot token cannot exceed 200 characters")
	}

	t.Messaging = settings
	t.Touch(now)

	t.Record(NewTenantMessagingUpdatedEvent(t, now))

	return nil
}

// Activate activates the tenant
func (t *Tenant) Activate(now time.Time) error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Tenant is already active")
	}
	t.changeStatus(TenantStatusActive, now)
	return nil
}

// Deactivate deactivates the tenant
func (t *Tenant) Deactivate(now time.Time) error {
	if t.Status == TenantStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Tenant is already inactive")
	}
	t.changeStatus(TenantStatusInactive, now)
	return nil
}

// Suspend suspends the tenant (e.g., due to payment issues)
func (t *Tenant) Suspend(now time.Time) error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Tenant is already suspended")
	}
	t.changeStatus(TenantStatusSuspended, now)
	return nil
}

func (t *Tenant) changeStatus(status TenantStatus, now time.Time) {
	oldStatus := t.Status
	t.Status = status
	t.Touch(now)

	t.Record(NewTenantStatusChangedEvent(t, oldStatus, status, now))
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// IsSuspended returns true if the tenant is suspended
func (t *Tenant) IsSuspended() bool {
	return t.Status == TenantStatusSuspended
}

// EnsureOperational returns an InvalidState error unless the tenant is active
func (t *Tenant) EnsureOperational() error {
	switch t.Status {
	case TenantStatusActive:
		return nil
	case TenantStatusSuspended:
		return shared.NewDomainError("TENANT_SUSPENDED", "Organization is suspended")
	default:
		return shared.NewDomainError("INVALID_STATE", "Organization is not active")
	}
}

// Validation functions

func validateTenantCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Tenant code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Tenant code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateTenantName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}

// TenantIDFrom parses a tenant identifier supplied by the request layer
func TenantIDFrom(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_TENANT", "Invalid tenant ID format")
	}
	return id, nil
}
