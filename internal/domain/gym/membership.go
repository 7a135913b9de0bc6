package gym

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MembershipStatus is the lifecycle state of a membership.
// The only transition is ACTIVE -> EXPIRED; renewal creates a new row.
type MembershipStatus string

const (
	MembershipStatusActive  MembershipStatus = "ACTIVE"
	MembershipStatusExpired MembershipStatus = "EXPIRED"
)

// ExpiryWarningDays is the remaining-days threshold at which check-in warns the member
const ExpiryWarningDays = 7

// Membership is a paid, time-bounded right to attend a discipline
type Membership struct {
	shared.TenantAggregateRoot
	MemberID      uuid.UUID
	DisciplineID  uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	Status        MembershipStatus
	AmountPaid    decimal.Decimal
	PaymentMethod string
	Notes         string
	RenewedFromID *uuid.UUID
}

// MembershipSnapshot is a read-only view of a membership returned to callers
type MembershipSnapshot struct {
	ID           uuid.UUID        `json:"id"`
	MemberID     uuid.UUID        `json:"member_id"`
	DisciplineID uuid.UUID        `json:"discipline_id"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	Status       MembershipStatus `json:"status"`
	AmountPaid   decimal.Decimal  `json:"amount_paid"`
}

// MembershipTerms holds the purchase inputs of a membership.
// Amount and method are opaque payment data.
type MembershipTerms struct {
	StartDate     time.Time
	EndDate       time.Time
	AmountPaid    decimal.Decimal
	PaymentMethod string
	Notes         string
}

// NewMembership creates an ACTIVE membership for member in discipline
func NewMembership(tenantID, memberID, disciplineID uuid.UUID, terms MembershipTerms, now time.Time) (*Membership, error) {
	if memberID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MEMBER", "Member is required")
	}
	if disciplineID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DISCIPLINE", "Discipline is required")
	}
	if !terms.EndDate.After(terms.StartDate) {
		return nil, shared.NewDomainError("INVALID_DATES", "End date must be after start date")
	}
	if terms.AmountPaid.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount paid cannot be negative")
	}
	if len(terms.PaymentMethod) > 50 {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot exceed 50 characters")
	}

	ms := &Membership{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, now),
		MemberID:            memberID,
		DisciplineID:        disciplineID,
		StartDate:           terms.StartDate,
		EndDate:             terms.EndDate,
		Status:              MembershipStatusActive,
		AmountPaid:          terms.AmountPaid.Round(2),
		PaymentMethod:       strings.TrimSpace(terms.PaymentMethod),
		Notes:               terms.Notes,
	}
	ms.Record(NewMembershipCreatedEvent(ms))
	return ms, nil
}

// IsActive returns true while the membership has not been expired
func (m *Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}

// Expire moves the membership to EXPIRED
func (m *Membership) Expire(now time.Time) error {
	if m.Status == MembershipStatusExpired {
		return shared.NewDomainError("INVALID_STATE", "Membership is already expired")
	}
	m.markExpired(now)
	return nil
}

func (m *Membership) markExpired(now time.Time) {
	m.Status = MembershipStatusExpired
	m.Touch(now)
	m.Record(NewMembershipExpiredEvent(m, now))
}

// Renew expires m regardless of its end date and returns the replacement
// membership, starting now and lasting months calendar months. The caller
// must persist m before the returned membership.
func (m *Membership) Renew(months int, amount decimal.Decimal, paymentMethod, notes string, now time.Time) (*Membership, error) {
	if months <= 0 {
		return nil, shared.NewDomainError("INVALID_MONTHS", "Renewal must last at least one month")
	}

	next, err := NewMembership(m.TenantID, m.MemberID, m.DisciplineID, MembershipTerms{
		StartDate:     now,
		EndDate:       AddMonths(now, months),
		AmountPaid:    amount,
		PaymentMethod: paymentMethod,
		Notes:         notes,
	}, now)
	if err != nil {
		return nil, err
	}
	prev := m.ID
	next.RenewedFromID = &prev
	// a renewal is announced as MembershipRenewed only
	next.PullEvents()
	next.Record(NewMembershipRenewedEvent(next, m.ID))

	if m.Status == MembershipStatusActive {
		m.markExpired(now)
	}
	return next, nil
}

// DaysLeft returns the number of started days until EndDate, rounded up
func (m *Membership) DaysLeft(now time.Time) int {
	return int(math.Ceil(m.EndDate.Sub(now).Hours() / 24))
}

// NeedsExpiryWarning returns true when the member should be reminded to renew
func (m *Membership) NeedsExpiryWarning(now time.Time) bool {
	return m.DaysLeft(now) <= ExpiryWarningDays
}

// Snapshot returns a copy safe to hand to callers
func (m *Membership) Snapshot() MembershipSnapshot {
	return MembershipSnapshot{
		ID:           m.ID,
		MemberID:     m.MemberID,
		DisciplineID: m.DisciplineID,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		Status:       m.Status,
		AmountPaid:   m.AmountPaid,
	}
}

// AddMonths adds calendar months to t. A day that does not exist in the
// target month is clamped to its last day (Jan 31 + 1 month = Feb 29/28).
func AddMonths(t time.Time, months int) time.Time {
	y, mo, d := t.Date()
	firstOfTarget := time.Date(y, mo+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return firstOfTarget.AddDate(0, 0, d-1)
}
