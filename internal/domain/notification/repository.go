package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AttemptRepository persists the notification ledger
type AttemptRepository interface {
	// ExistsSent reports whether a SENT attempt for member and category has
	// sent_at in [from, to)
	ExistsSent(ctx context.Context, tenantID, memberID uuid.UUID, category Category, from, to time.Time) (bool, error)

	// Create appends an attempt. A second SENT row for the same member,
	// category and local day returns shared.ErrConflict.
	Create(ctx context.Context, attempt *Attempt) error

	// FindByMember returns a member's attempts newest first
	FindByMember(ctx context.Context, tenantID, memberID uuid.UUID, limit int) ([]Attempt, error)
}
