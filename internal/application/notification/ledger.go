package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DedupLedger answers "already done today?" for notifications and check-ins.
// Every decision is a fresh read against the store; nothing is cached.
type DedupLedger struct {
	attempts   notification.AttemptRepository
	attendance gym.AttendanceRepository
	clock      shared.Clock
	loc        *time.Location
	logger     *zap.Logger
}

// NewDedupLedger creates a ledger whose calendar days are taken in loc
func NewDedupLedger(
	attempts notification.AttemptRepository,
	attendance gym.AttendanceRepository,
	clock shared.Clock,
	loc *time.Location,
	logger *zap.Logger,
) *DedupLedger {
	if loc == nil {
		loc = time.UTC
	}
	return &DedupLedger{
		attempts:   attempts,
		attendance: attendance,
		clock:      clock,
		loc:        loc,
		logger:     logger,
	}
}

// Location returns the timezone the ledger uses for calendar days
func (l *DedupLedger) Location() *time.Location {
	return l.loc
}

// WasNotifiedToday reports whether a SENT attempt of category exists for the
// member in the current local calendar day.
func (l *DedupLedger) WasNotifiedToday(ctx context.Context, tenantID, memberID uuid.UUID, category notification.Category) (bool, error) {
	start, end := shared.DayRange(l.clock.Now(), l.loc)
	sent, err := l.attempts.ExistsSent(ctx, tenantID, memberID, category, start, end)
	if err != nil {
		return false, fmt.Errorf("failed to read notification ledger: %w", err)
	}
	return sent, nil
}

// HasCheckedInToday returns the member's first attendance of the current local
// day, or nil when there is none.
func (l *DedupLedger) HasCheckedInToday(ctx context.Context, tenantID, memberID uuid.UUID) (*gym.Attendance, error) {
	start, end := shared.DayRange(l.clock.Now(), l.loc)
	existing, err := l.attendance.FindFirstBetween(ctx, tenantID, memberID, start, end)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read attendance: %w", err)
	}
	return existing, nil
}

// RecordAttempt appends an attempt. A second SENT row for the same member,
// category and day is rejected by the store with shared.ErrConflict.
func (l *DedupLedger) RecordAttempt(ctx context.Context, attempt *notification.Attempt) error {
	if err := l.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			l.logger.Warn("Duplicate notification attempt rejected by ledger",
				zap.String("tenant_id", attempt.TenantID.String()),
				zap.String("member_id", attempt.MemberID.String()),
				zap.String("category", string(attempt.Category)),
				zap.String("sent_date", attempt.SentDate),
			)
			return err
		}
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return nil
}
