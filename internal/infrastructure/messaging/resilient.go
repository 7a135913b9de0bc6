package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrChannelClosed is returned by a channel that was stopped by the registry
var ErrChannelClosed = errors.New("messaging channel closed")

// ErrCircuitOpen is returned without calling the provider while the breaker is open
var ErrCircuitOpen = errors.New("messaging channel circuit open")

// ResilienceOptions configures the guard placed around a tenant channel
type ResilienceOptions struct {
	RatePerSecond      float64
	Burst              int
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// ResilientChannel wraps a channel with a send rate limit and a circuit breaker.
// A failing provider is rejected fast instead of being called once per member.
type ResilientChannel struct {
	name    string
	inner   notification.Channel
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[struct{}]
	closed  atomic.Bool
	logger  *zap.Logger
}

// NewResilientChannel wraps inner. name identifies the breaker in logs.
func NewResilientChannel(name string, inner notification.Channel, opts ResilienceOptions, logger *zap.Logger) *ResilientChannel {
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	maxFailures := opts.BreakerMaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := opts.BreakerTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	c := &ResilientChannel{
		name:    name,
		inner:   inner,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}

	c.cb = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A blocked bot or unknown chat is the member's problem, not the provider's.
		IsSuccessful: func(err error) bool {
			return err == nil || IsRecipientError(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Messaging circuit breaker state change",
				zap.String("channel", name),
				zap.String("from", stateToString(from)),
				zap.String("to", stateToString(to)),
			)
		},
	})

	return c
}

// Send waits for a rate slot and sends through the breaker. It never retries.
func (c *ResilientChannel) Send(ctx context.Context, recipient, text string) error {
	if c.closed.Load() {
		return ErrChannelClosed
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, span := telemetry.StartSpan(ctx, "messaging.send",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute("messaging.channel", c.name),
	)
	defer span.End()

	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, c.inner.Send(ctx, recipient, text)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		telemetry.AddEvent(span, "circuit_open", "breaker.state", c.State())
		return ErrCircuitOpen
	}
	telemetry.RecordError(span, err)
	return err
}

// State returns the breaker state as a string
func (c *ResilientChannel) State() string {
	return stateToString(c.cb.State())
}

// Close stops the channel. Later sends fail with ErrChannelClosed.
func (c *ResilientChannel) Close() error {
	c.closed.Store(true)
	return nil
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
