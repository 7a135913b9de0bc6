package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultClaimTTL outlives one calendar day so a claim covers every run of that day
const DefaultClaimTTL = 26 * time.Hour

// DispatchOutcome is the result of one dispatch decision
type DispatchOutcome string

const (
	// OutcomeSkipped means nothing was sent and nothing was recorded
	OutcomeSkipped DispatchOutcome = "SKIPPED"
	// OutcomeDeduplicated means another process holds today's send claim
	OutcomeDeduplicated DispatchOutcome = "DEDUPLICATED"
	OutcomeSent         DispatchOutcome = "SENT"
	OutcomeFailed       DispatchOutcome = "FAILED"
)

// DispatchRequest carries everything needed to render and deliver one message.
// Membership and Discipline are nil for WELCOME.
type DispatchRequest struct {
	Tenant     *identity.Tenant
	Member     *gym.Member
	Membership *gym.Membership
	Discipline *gym.Discipline
	Bucket     notification.Bucket
	DaysLeft   int
	// UseClaim takes the per-day send claim right before the external call
	UseClaim bool
	// Manual records the attempt as a deliberate resend that bypassed dedup
	Manual bool
}

// Dispatcher renders, sends and records exactly one attempt per delivery.
// It never returns an error: failures end up in the ledger and the logs.
type Dispatcher struct {
	channels notification.ChannelProvider
	renderer *notification.Renderer
	ledger   *DedupLedger
	claims   shared.ClaimStore
	claimTTL time.Duration
	clock    shared.Clock
	metrics  *telemetry.GymMetrics
	logger   *zap.Logger
}

// DispatcherOption configures optional dispatcher collaborators
type DispatcherOption func(*Dispatcher)

// WithSendClaims enables the cross-process send claim
func WithSendClaims(claims shared.ClaimStore, ttl time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.claims = claims
		if ttl > 0 {
			d.claimTTL = ttl
		}
	}
}

// WithDispatchMetrics records dispatch counters
func WithDispatchMetrics(metrics *telemetry.GymMetrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = metrics
	}
}

// NewDispatcher creates a new notification dispatcher
func NewDispatcher(
	channels notification.ChannelProvider,
	renderer *notification.Renderer,
	ledger *DedupLedger,
	clock shared.Clock,
	logger *zap.Logger,
	opts ...DispatcherOption,
) *Dispatcher {
	d := &Dispatcher{
		channels: channels,
		renderer: renderer,
		ledger:   ledger,
		claimTTL: DefaultClaimTTL,
		clock:    clock,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch delivers the message for req.Bucket to the member's recipient handle
func (d *Dispatcher) Dispatch(ctx context.Context, req DispatchRequest) DispatchOutcome {
	category, ok := req.Bucket.Category()
	if !ok {
		return OutcomeSkipped
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "notification", "dispatch",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, req.Tenant.ID),
		telemetry.WithAttribute(telemetry.SpanAttrMemberID, req.Member.ID),
		telemetry.WithAttribute(telemetry.SpanAttrBucket, string(req.Bucket)),
	)
	defer span.End()

	log := d.logger.With(
		zap.String("tenant_id", req.Tenant.ID.String()),
		zap.String("member_id", req.Member.ID.String()),
		zap.String("bucket", string(req.Bucket)),
	)

	outcome := d.dispatch(ctx, req, category, log)
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, string(outcome))
	d.metrics.RecordDispatch(ctx, req.Tenant.ID, string(category), strings.ToLower(string(outcome)))
	return outcome
}

func (d *Dispatcher) dispatch(ctx context.Context, req DispatchRequest, category notification.Category, log *zap.Logger) DispatchOutcome {
	if !req.Member.HasRecipient() {
		log.Debug("Member has no recipient handle, skipping notification")
		return OutcomeSkipped
	}

	now := d.clock.Now()
	loc := d.ledger.Location()

	claimKey := ""
	if req.UseClaim && d.claims != nil {
		key := ClaimKey(req.Member.ID.String(), category, shared.CalendarDate(now, loc))
		acquired, err := d.claims.Claim(ctx, key, d.claimTTL)
		switch {
		case err != nil:
			// The ledger index still rejects a second SENT row
			log.Warn("Send claim unavailable, continuing without it", zap.Error(err))
		case !acquired:
			log.Info("Send claim held by another process, skipping notification", zap.String("claim", key))
			return OutcomeDeduplicated
		default:
			claimKey = key
		}
	}

	text, sendErr := d.render(req, loc)
	if sendErr == nil {
		sendErr = d.send(ctx, req.Tenant.ID, req.Member.Recipient(), text)
	}

	attempt := notification.NewAttempt(req.Tenant.ID, req.Member.ID, membershipIDOf(req.Membership), req.Bucket, now, loc, text, sendErr)
	attempt.Manual = req.Manual
	if err := d.ledger.RecordAttempt(ctx, attempt); err != nil && !errors.Is(err, shared.ErrConflict) {
		log.Error("Failed to record notification attempt", zap.Error(err))
	}

	if sendErr != nil {
		// A failed delivery must not block a later run on the same day
		if claimKey != "" {
			if err := d.claims.Release(context.WithoutCancel(ctx), claimKey); err != nil {
				log.Warn("Failed to release send claim", zap.String("claim", claimKey), zap.Error(err))
			}
		}
		log.Warn("Notification delivery failed", zap.Error(sendErr))
		return OutcomeFailed
	}

	log.Info("Notification sent")
	return OutcomeSent
}

func (d *Dispatcher) render(req DispatchRequest, loc *time.Location) (string, error) {
	var (
		disciplineName string
		endDate        time.Time
	)
	if req.Discipline != nil {
		disciplineName = req.Discipline.Name
	}
	if req.Membership != nil {
		endDate = req.Membership.EndDate
	}

	data := notification.NewTemplateData(req.Member.FullName(), disciplineName, req.Tenant.Label(), endDate, req.DaysLeft, loc)
	return d.renderer.Render(req.Bucket, data)
}

func (d *Dispatcher) send(ctx context.Context, tenantID uuid.UUID, recipient, text string) error {
	channel, ok := d.channels.Get(tenantID)
	if !ok {
		return notification.ErrChannelNotConfigured
	}
	if err := channel.Send(ctx, recipient, text); err != nil {
		return fmt.Errorf("delivery failed: %w", err)
	}
	return nil
}

// ClaimKey names the per-day send claim of a member and category
func ClaimKey(memberID string, category notification.Category, date string) string {
	return fmt.Sprintf("notify:%s:%s:%s", memberID, category, date)
}

func membershipIDOf(m *gym.Membership) *uuid.UUID {
	if m == nil {
		return nil
	}
	id := m.ID
	return &id
}
