package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WelcomeHandler sends the WELCOME message once a member links a recipient handle
type WelcomeHandler struct {
	tenants    identity.TenantRepository
	members    gym.MemberRepository
	ledger     *DedupLedger
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewWelcomeHandler creates a new welcome handler
func NewWelcomeHandler(
	tenants identity.TenantRepository,
	members gym.MemberRepository,
	ledger *DedupLedger,
	dispatcher *Dispatcher,
	logger *zap.Logger,
) *WelcomeHandler {
	return &WelcomeHandler{
		tenants:    tenants,
		members:    members,
		ledger:     ledger,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *WelcomeHandler) EventTypes() []string {
	return []string{gym.EventTypeMemberRecipientLinked}
}

// Handle dispatches WELCOME for the linked member. Relinking on the same day
// sends nothing new.
func (h *WelcomeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	linked, ok := event.(*gym.MemberRecipientLinkedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	tenant, err := h.tenants.FindByID(ctx, linked.TenantID())
	if err != nil {
		return fmt.Errorf("failed to load tenant: %w", err)
	}
	if !tenant.IsActive() {
		h.logger.Info("Tenant not active, skipping welcome message",
			zap.String("tenant_id", tenant.ID.String()))
		return nil
	}

	// Reload so the handle reflects the committed state, not the event payload
	member, err := h.members.FindByID(ctx, tenant.ID, linked.MemberID)
	if err != nil {
		return fmt.Errorf("failed to load member: %w", err)
	}

	sent, err := h.ledger.WasNotifiedToday(ctx, tenant.ID, member.ID, notification.CategoryWelcome)
	if err != nil {
		return err
	}
	if sent {
		h.logger.Debug("Welcome message already sent today",
			zap.String("member_id", member.ID.String()))
		return nil
	}

	h.dispatcher.Dispatch(ctx, DispatchRequest{
		Tenant: tenant,
		Member: member,
		Bucket: notification.BucketWelcome,
	})
	return nil
}

// ChannelRegistry is the live channel registry the reconciler drives
type ChannelRegistry interface {
	Reconcile(ctx context.Context, tenantID uuid.UUID, settings identity.MessagingSettings) error
}

// ChannelReconciler keeps the live channel of a tenant in line with its
// messaging settings and status.
type ChannelReconciler struct {
	registry ChannelRegistry
	tenants  identity.TenantRepository
	logger   *zap.Logger

	// locks holds one *sync.Mutex per tenant; load and reconcile run under it
	locks sync.Map
}

// NewChannelReconciler creates a new channel reconciler
func NewChannelReconciler(registry ChannelRegistry, tenants identity.TenantRepository, logger *zap.Logger) *ChannelReconciler {
	return &ChannelReconciler{
		registry: registry,
		tenants:  tenants,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ChannelReconciler) EventTypes() []string {
	return []string{
		identity.EventTypeTenantMessagingUpdated,
		identity.EventTypeTenantStatusChanged,
	}
}

// Handle starts, replaces or stops the tenant's channel from the tenant's
// committed state, so events handled out of order still converge on the
// latest settings. A tenant that is missing or not active gets no channel.
// Failures are logged and leave the previous channel in place.
func (h *ChannelReconciler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.(type) {
	case *identity.TenantMessagingUpdatedEvent, *identity.TenantStatusChangedEvent:
	default:
		return fmt.Errorf("unexpected event type %T", event)
	}

	tenantID := event.TenantID()
	lock, _ := h.locks.LoadOrStore(tenantID, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
	defer lock.(*sync.Mutex).Unlock()

	var settings identity.MessagingSettings
	tenant, err := h.tenants.FindByID(ctx, tenantID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
	case err != nil:
		return fmt.Errorf("failed to load tenant: %w", err)
	case tenant.IsActive():
		settings = tenant.Messaging
	}

	if err := h.registry.Reconcile(ctx, tenantID, settings); err != nil {
		h.logger.Error("Failed to reconcile messaging channel",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err),
		)
		return nil
	}
	h.logger.Info("Messaging channel reconciled",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("enabled", settings.IsConfigured()),
	)
	return nil
}

var (
	_ shared.EventHandler = (*WelcomeHandler)(nil)
	_ shared.EventHandler = (*ChannelReconciler)(nil)
)
