package gym

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// Event type constants
const (
	EventTypeMemberCreated         = "MemberCreated"
	EventTypeMemberRecipientLinked = "MemberRecipientLinked"
	EventTypeMembershipCreated     = "MembershipCreated"
	EventTypeMembershipRenewed     = "MembershipRenewed"
	EventTypeMembershipExpired     = "MembershipExpired"
)

// MemberCreatedEvent is published when a member enrolls
type MemberCreatedEvent struct {
	shared.EventHeader
	MemberID uuid.UUID `json:"member_id"`
	Code     string    `json:"code"`
}

// NewMemberCreatedEvent creates a new MemberCreatedEvent
func NewMemberCreatedEvent(m *Member) *MemberCreatedEvent {
	return &MemberCreatedEvent{
		EventHeader: shared.NewEventHeader(EventTypeMemberCreated, m.TenantID, m.ID, m.CreatedAt),
		MemberID:    m.ID,
		Code:        m.Code,
	}
}

// MemberRecipientLinkedEvent is published when a member links a messaging account.
// It triggers the welcome message.
type MemberRecipientLinkedEvent struct {
	shared.EventHeader
	MemberID  uuid.UUID `json:"member_id"`
	Recipient string    `json:"recipient"`
}

// NewMemberRecipientLinkedEvent creates a new MemberRecipientLinkedEvent
func NewMemberRecipientLinkedEvent(m *Member, at time.Time) *MemberRecipientLinkedEvent {
	return &MemberRecipientLinkedEvent{
		EventHeader: shared.NewEventHeader(EventTypeMemberRecipientLinked, m.TenantID, m.ID, at),
		MemberID:    m.ID,
		Recipient:   m.Recipient(),
	}
}

// MembershipCreatedEvent is published when a membership is purchased
type MembershipCreatedEvent struct {
	shared.EventHeader
	MemberID     uuid.UUID `json:"member_id"`
	DisciplineID uuid.UUID `json:"discipline_id"`
	EndDate      time.Time `json:"end_date"`
}

// NewMembershipCreatedEvent creates a new MembershipCreatedEvent
func NewMembershipCreatedEvent(m *Membership) *MembershipCreatedEvent {
	return &MembershipCreatedEvent{
		EventHeader:  shared.NewEventHeader(EventTypeMembershipCreated, m.TenantID, m.ID, m.CreatedAt),
		MemberID:     m.MemberID,
		DisciplineID: m.DisciplineID,
		EndDate:      m.EndDate,
	}
}

// MembershipRenewedEvent is published on the replacement membership of a renewal
type MembershipRenewedEvent struct {
	shared.EventHeader
	MemberID   uuid.UUID `json:"member_id"`
	PreviousID uuid.UUID `json:"previous_id"`
	EndDate    time.Time `json:"end_date"`
}

// NewMembershipRenewedEvent creates a new MembershipRenewedEvent
func NewMembershipRenewedEvent(m *Membership, previousID uuid.UUID) *MembershipRenewedEvent {
	return &MembershipRenewedEvent{
		EventHeader: shared.NewEventHeader(EventTypeMembershipRenewed, m.TenantID, m.ID, m.CreatedAt),
		MemberID:    m.MemberID,
		PreviousID:  previousID,
		EndDate:     m.EndDate,
	}
}

// MembershipExpiredEvent is published when a membership leaves ACTIVE
type MembershipExpiredEvent struct {
	shared.EventHeader
	MemberID uuid.UUID `json:"member_id"`
}

// NewMembershipExpiredEvent creates a new MembershipExpiredEvent
func NewMembershipExpiredEvent(m *Membership, at time.Time) *MembershipExpiredEvent {
	return &MembershipExpiredEvent{
		EventHeader: shared.NewEventHeader(EventTypeMembershipExpired, m.TenantID, m.ID, at),
		MemberID:    m.MemberID,
	}
}
