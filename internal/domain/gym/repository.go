package gym

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MemberRepository defines the interface for member persistence.
// Every lookup is scoped by tenant.
type MemberRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Member, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Member, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, member *Member) error
}

// DisciplineRepository defines the interface for discipline persistence
type DisciplineRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Discipline, error)
	ExistsByName(ctx context.Context, tenantID uuid.UUID, name string) (bool, error)
	Save(ctx context.Context, discipline *Discipline) error
}

// MembershipRepository defines the interface for membership persistence
type MembershipRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Membership, error)

	// FindActiveForMember returns the ACTIVE membership with the latest end date.
	// Returns shared.ErrNotFound when the member has none.
	FindActiveForMember(ctx context.Context, tenantID, memberID uuid.UUID) (*Membership, error)

	// FindActiveForMemberDiscipline is FindActiveForMember narrowed to one discipline
	FindActiveForMemberDiscipline(ctx context.Context, tenantID, memberID, disciplineID uuid.UUID) (*Membership, error)

	// FindActiveEndingBetween loads ACTIVE memberships of every tenant with
	// end_date in [from, to). Used by the expiration sweep only.
	FindActiveEndingBetween(ctx context.Context, from, to time.Time) ([]Membership, error)

	Save(ctx context.Context, membership *Membership) error
}

// AttendanceRepository defines the interface for attendance persistence.
// Rows are insert-only.
type AttendanceRepository interface {
	// FindFirstBetween returns the earliest attendance of the member with
	// checked_in_at in [from, to), or shared.ErrNotFound.
	FindFirstBetween(ctx context.Context, tenantID, memberID uuid.UUID, from, to time.Time) (*Attendance, error)

	// Create inserts the row. A second row for the same member and local day
	// returns shared.ErrConflict.
	Create(ctx context.Context, attendance *Attendance) error
}
