package identity

import (
	"time"

	"github.com/gymdesk/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeTenantCreated          = "TenantCreated"
	EventTypeTenantStatusChanged    = "TenantStatusChanged"
	EventTypeTenantMessagingUpdated = "TenantMessagingUpdated"
)

// TenantCreatedEvent is published when a new tenant is created
type TenantCreatedEvent struct {
	shared.EventHeader
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(tenant *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeTenantCreated, tenant.ID, tenant.ID, tenant.CreatedAt),
		Code:        tenant.Code,
		Name:        tenant.Name,
	}
}

// TenantStatusChangedEvent is published when a tenant's status changes
type TenantStatusChangedEvent struct {
	shared.EventHeader
	OldStatus TenantStatus `json:"old_status"`
	NewStatus TenantStatus `json:"new_status"`
}

// NewTenantStatusChangedEvent creates a new TenantStatusChangedEvent
func NewTenantStatusChangedEvent(tenant *Tenant, oldStatus, newStatus TenantStatus, at time.Time) *TenantStatusChangedEvent {
	return &TenantStatusChangedEvent{
		EventHeader: shared.NewEventHeader(EventTypeTenantStatusChanged, tenant.ID, tenant.ID, at),
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
	}
}

// TenantMessagingUpdatedEvent is published when the messaging account changes.
// It carries the settings so the channel registry can reconcile without a read.
type TenantMessagingUpdatedEvent struct {
	shared.EventHeader
	Settings MessagingSettings `json:"-"`
}

// NewTenantMessagingUpdatedEvent creates a new TenantMessagingUpdatedEvent
func NewTenantMessagingUpdatedEvent(tenant *Tenant, at time.Time) *TenantMessagingUpdatedEvent {
	return &TenantMessagingUpdatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeTenantMessagingUpdated, tenant.ID, tenant.ID, at),
		Settings:    tenant.Messaging,
	}
}
