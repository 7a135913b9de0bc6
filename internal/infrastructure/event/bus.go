package event

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gymdesk/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned when publishing asynchronously on a stopped bus
var ErrBusStopped = errors.New("event bus is stopped")

// defaultHandlerTimeout bounds one asynchronous handler invocation
const defaultHandlerTimeout = 30 * time.Second

// BusOption configures the event bus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch makes Publish return before handlers run. Each handler gets
// a context detached from the publisher's cancellation and bounded by timeout.
func WithAsyncDispatch(timeout time.Duration) BusOption {
	return func(b *InMemoryEventBus) {
		b.async = true
		if timeout > 0 {
			b.handlerTimeout = timeout
		}
	}
}

// InMemoryEventBus delivers domain events to handlers in the same process.
// Synchronous by default; WithAsyncDispatch runs each handler on its own goroutine.
type InMemoryEventBus struct {
	subs           *subscriptions
	logger         *zap.Logger
	running        atomic.Bool
	wg             sync.WaitGroup
	async          bool
	handlerTimeout time.Duration
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	b := &InMemoryEventBus{
		subs:           newSubscriptions(),
		logger:         logger,
		handlerTimeout: defaultHandlerTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to every registered handler. Handler errors are
// logged and never returned to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.async && !b.running.Load() {
		return ErrBusStopped
	}

	for _, event := range events {
		handlers := b.subs.forType(event.EventType())

		for _, handler := range handlers {
			if !b.async {
				b.dispatchToHandler(ctx, handler, event)
				continue
			}

			b.wg.Add(1)
			go func(handler shared.EventHandler, event shared.DomainEvent) {
				defer b.wg.Done()
				hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.handlerTimeout)
				defer cancel()
				b.dispatchToHandler(hctx, handler, event)
			}(handler, event)
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, falling back to the handler's
// own EventTypes. A handler with no types receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.subs.add(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Start opens the bus for asynchronous publishing
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop stops accepting events and waits for in-flight handlers or ctx to expire
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Drain waits until every in-flight handler has returned
func (b *InMemoryEventBus) Drain() {
	b.wg.Wait()
}

// dispatchToHandler runs one handler, containing panics and logging errors
func (b *InMemoryEventBus) dispatchToHandler(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
