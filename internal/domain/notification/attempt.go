package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// Outcome is the recorded result of one delivery attempt
type Outcome string

const (
	OutcomeSent   Outcome = "SENT"
	OutcomeFailed Outcome = "FAILED"
)

// Attempt is one recorded delivery of a notification. Append-only.
type Attempt struct {
	shared.BaseEntity
	TenantID     uuid.UUID
	MemberID     uuid.UUID
	MembershipID *uuid.UUID
	Category     Category
	Bucket       Bucket
	Outcome      Outcome
	SentAt       time.Time
	SentDate     string // local calendar day of SentAt, YYYY-MM-DD
	Message      string
	Error        string
	// Manual marks a resend from a manual sweep that skipped the once-per-day
	// check. Manual rows are outside the one-SENT-per-day constraint.
	Manual bool
}

// NewAttempt builds an attempt row for a delivery made at sentAt
func NewAttempt(tenantID, memberID uuid.UUID, membershipID *uuid.UUID, bucket Bucket, sentAt time.Time, loc *time.Location, message string, sendErr error) *Attempt {
	category, _ := bucket.Category()
	a := &Attempt{
		BaseEntity:   shared.NewBaseEntity(sentAt),
		TenantID:     tenantID,
		MemberID:     memberID,
		MembershipID: membershipID,
		Category:     category,
		Bucket:       bucket,
		Outcome:      OutcomeSent,
		SentAt:       sentAt,
		SentDate:     shared.CalendarDate(sentAt, loc),
		Message:      message,
	}
	if sendErr != nil {
		a.Outcome = OutcomeFailed
		a.Error = truncate(sendErr.Error(), 1000)
	}
	return a
}

// Succeeded reports whether the message reached the channel
func (a *Attempt) Succeeded() bool {
	return a.Outcome == OutcomeSent
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
