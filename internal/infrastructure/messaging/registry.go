package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// bootstrapConcurrency bounds how many channels are built at once on startup
const bootstrapConcurrency = 4

// LiveChannel is a started tenant channel
type LiveChannel interface {
	notification.Channel
	Close() error
}

// ChannelFactory builds a live channel from a tenant's messaging settings
type ChannelFactory func(tenantID uuid.UUID, settings identity.MessagingSettings) (LiveChannel, error)

// NewTelegramFactory returns a factory producing rate-limited, breaker-guarded Telegram channels
func NewTelegramFactory(cfg config.MessagingConfig, logger *zap.Logger) ChannelFactory {
	opts := ResilienceOptions{
		RatePerSecond:      cfg.RatePerSecond,
		Burst:              cfg.Burst,
		BreakerMaxFailures: cfg.BreakerMaxFailures,
		BreakerTimeout:     cfg.BreakerTimeout,
	}
	return func(tenantID uuid.UUID, settings identity.MessagingSettings) (LiveChannel, error) {
		tg, err := NewTelegramChannel(cfg.TelegramBaseURL, settings.BotToken, cfg.RequestTimeout)
		if err != nil {
			return nil, err
		}
		name := "telegram:" + tenantID.String()
		return NewResilientChannel(name, tg, opts, logger.With(zap.String("tenant_id", tenantID.String()))), nil
	}
}

// Registry holds zero or one live channel per tenant.
// Tenants are independent: starting or stopping one never touches another.
type Registry struct {
	mu       sync.RWMutex
	channels map[uuid.UUID]LiveChannel
	factory  ChannelFactory
	logger   *zap.Logger

	// reconciling serializes Reconcile per tenant
	reconcileMu sync.Mutex
	reconciling map[uuid.UUID]*sync.Mutex
}

// NewRegistry creates an empty registry
func NewRegistry(factory ChannelFactory, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		channels:    make(map[uuid.UUID]LiveChannel),
		factory:     factory,
		logger:      logger,
		reconciling: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *Registry) tenantLock(tenantID uuid.UUID) *sync.Mutex {
	r.reconcileMu.Lock()
	defer r.reconcileMu.Unlock()
	l, ok := r.reconciling[tenantID]
	if !ok {
		l = &sync.Mutex{}
		r.reconciling[tenantID] = l
	}
	return l
}

// Get returns the live channel of a tenant
func (r *Registry) Get(tenantID uuid.UUID) (notification.Channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch, ok := r.channels[tenantID]
	return ch, ok
}

// Start creates and registers a channel for the tenant. It fails if one is already running.
func (r *Registry) Start(tenantID uuid.UUID, settings identity.MessagingSettings) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("start channel for tenant %s: %w", tenantID, notification.ErrChannelNotConfigured)
	}
	ch, err := r.factory(tenantID, settings)
	if err != nil {
		return fmt.Errorf("start channel for tenant %s: %w", tenantID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[tenantID]; exists {
		_ = ch.Close()
		return fmt.Errorf("channel for tenant %s already running", tenantID)
	}
	r.channels[tenantID] = ch
	return nil
}

// Replace swaps the tenant's channel for one built from settings.
// The old channel stays live if the new one cannot be built.
func (r *Registry) Replace(tenantID uuid.UUID, settings identity.MessagingSettings) error {
	if !settings.IsConfigured() {
		return fmt.Errorf("replace channel for tenant %s: %w", tenantID, notification.ErrChannelNotConfigured)
	}
	ch, err := r.factory(tenantID, settings)
	if err != nil {
		return fmt.Errorf("replace channel for tenant %s: %w", tenantID, err)
	}

	r.mu.Lock()
	old := r.channels[tenantID]
	r.channels[tenantID] = ch
	r.mu.Unlock()

	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Stop removes and closes the tenant's channel. Stopping a missing channel is a no-op.
func (r *Registry) Stop(tenantID uuid.UUID) {
	r.mu.Lock()
	ch, ok := r.channels[tenantID]
	delete(r.channels, tenantID)
	r.mu.Unlock()

	if ok {
		_ = ch.Close()
	}
}

// StopAll closes every channel
func (r *Registry) StopAll() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[uuid.UUID]LiveChannel)
	r.mu.Unlock()

	for tenantID, ch := range channels {
		if err := ch.Close(); err != nil {
			r.logger.Warn("Failed to close messaging channel", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
}

// Count returns the number of live channels
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

// Reconcile brings the tenant's channel in line with settings: replaced when
// configured, stopped otherwise. Calls for the same tenant run one at a time
// in arrival order, so the last call's settings are the ones left live.
func (r *Registry) Reconcile(ctx context.Context, tenantID uuid.UUID, settings identity.MessagingSettings) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := r.tenantLock(tenantID)
	lock.Lock()
	defer lock.Unlock()

	if !settings.IsConfigured() {
		r.Stop(tenantID)
		r.logger.Info("Messaging channel stopped", zap.String("tenant_id", tenantID.String()))
		return nil
	}
	if err := r.Replace(tenantID, settings); err != nil {
		return err
	}
	r.logger.Info("Messaging channel started", zap.String("tenant_id", tenantID.String()))
	return nil
}

// Bootstrap starts a channel for every tenant passed in, a few at a time.
// Per-tenant failures are logged. Returns the number of channels started.
func (r *Registry) Bootstrap(ctx context.Context, tenants []identity.Tenant) int {
	var (
		g       errgroup.Group
		mu      sync.Mutex
		started int
	)
	g.SetLimit(bootstrapConcurrency)
	for i := range tenants {
		t := &tenants[i]
		g.Go(func() error {
			if err := r.Reconcile(ctx, t.ID, t.Messaging); err != nil {
				r.logger.Warn("Failed to start messaging channel",
					zap.String("tenant_id", t.ID.String()),
					zap.String("tenant_code", t.Code),
					zap.Error(err),
				)
				return nil
			}
			if t.Messaging.IsConfigured() {
				mu.Lock()
				started++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return started
}

// Ensure Registry implements ChannelProvider
var _ notification.ChannelProvider = (*Registry)(nil)
