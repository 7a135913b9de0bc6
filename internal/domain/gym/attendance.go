package gym

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/shared"
)

// Attendance records a member entering the gym. Rows are never mutated.
type Attendance struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	MemberID    uuid.UUID
	CheckedInAt time.Time
	CheckInDate string // local calendar day, YYYY-MM-DD
	Notes       string
}

// NewAttendance creates an attendance row for at, bucketed on the local day in loc
func NewAttendance(tenantID, memberID uuid.UUID, at time.Time, loc *time.Location, notes string) *Attendance {
	return &Attendance{
		BaseEntity:  shared.NewBaseEntity(at),
		TenantID:    tenantID,
		MemberID:    memberID,
		CheckedInAt: at,
		CheckInDate: shared.CalendarDate(at, loc),
		Notes:       strings.TrimSpace(notes),
	}
}

// AlreadyCheckedInError is returned when a member scans twice on the same day.
// It carries the first scan so the caller can show when it happened.
type AlreadyCheckedInError struct {
	RegisteredAt time.Time
	Member       MemberSnapshot
}

// NewAlreadyCheckedInError reports the first scan in loc, the zone that
// decided it was the same day.
func NewAlreadyCheckedInError(registeredAt time.Time, loc *time.Location, member MemberSnapshot) *AlreadyCheckedInError {
	return &AlreadyCheckedInError{RegisteredAt: registeredAt.In(loc), Member: member}
}

// Error implements the error interface
func (e *AlreadyCheckedInError) Error() string {
	return fmt.Sprintf("member %s already checked in at %s", e.Member.Code, e.RegisteredAt.Format("15:04"))
}

// Is matches shared.ErrConflict
func (e *AlreadyCheckedInError) Is(target error) bool {
	return target == shared.ErrConflict
}
