package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrChannelNotConfigured is recorded when a tenant has no live messaging channel
var ErrChannelNotConfigured = errors.New("messaging channel not configured for tenant")

// Channel delivers a rendered message to an opaque recipient handle
type Channel interface {
	Send(ctx context.Context, recipient, text string) error
}

// ChannelProvider resolves the live channel of a tenant.
// Returns false when the tenant has none.
type ChannelProvider interface {
	Get(tenantID uuid.UUID) (Channel, bool)
}
