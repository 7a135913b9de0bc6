package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when metrics are built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Metric attribute keys
var (
	AttrTenantID = attribute.Key("tenant_id")
	AttrTrigger  = attribute.Key("trigger")
	AttrResult   = attribute.Key("result")
	AttrCategory = attribute.Key("category")
	AttrOutcome  = attribute.Key("outcome")
)

// Sweep results
const (
	SweepResultCompleted = "completed"
	SweepResultLocked    = "locked"
	SweepResultFailed    = "failed"
)

// Check-in results
const (
	CheckInAccepted         = "accepted"
	CheckInAlreadyCheckedIn = "already_checked_in"
	CheckInRejected         = "rejected"
)

// SweepDurationBuckets are histogram boundaries for a whole sweep run (seconds).
var SweepDurationBuckets = []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300}

// SweepStats is the per-run tally reported by the expiration sweep.
type SweepStats struct {
	Manual       bool
	Result       string
	Candidates   int
	Sent         int
	Failed       int
	Skipped      int
	Deduplicated int
	Errors       int
	Duration     time.Duration
}

// GymMetrics holds the counters for sweeps, notification dispatches and check-ins.
// All methods are safe on a nil receiver so callers can run without metrics.
type GymMetrics struct {
	sweepRuns        metric.Int64Counter
	sweepMemberships metric.Int64Counter
	sweepDuration    metric.Float64Histogram
	dispatches       metric.Int64Counter
	checkIns         metric.Int64Counter
}

// NewGymMetrics registers the gym instruments on meter.
func NewGymMetrics(meter metric.Meter) (*GymMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	m := &GymMetrics{}
	var err error

	if m.sweepRuns, err = meter.Int64Counter("gym_sweep_runs_total",
		metric.WithDescription("Expiration sweep runs by trigger and result"),
		metric.WithUnit("{runs}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create sweep runs counter: %w", err)
	}

	if m.sweepMemberships, err = meter.Int64Counter("gym_sweep_memberships_total",
		metric.WithDescription("Memberships examined by the expiration sweep, by outcome"),
		metric.WithUnit("{memberships}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create sweep memberships counter: %w", err)
	}

	if m.sweepDuration, err = meter.Float64Histogram("gym_sweep_duration_seconds",
		metric.WithDescription("Wall time of one expiration sweep"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(SweepDurationBuckets...),
	); err != nil {
		return nil, fmt.Errorf("failed to create sweep duration histogram: %w", err)
	}

	if m.dispatches, err = meter.Int64Counter("gym_notification_dispatch_total",
		metric.WithDescription("Notification dispatches by category and outcome"),
		metric.WithUnit("{notifications}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create dispatch counter: %w", err)
	}

	if m.checkIns, err = meter.Int64Counter("gym_check_in_total",
		metric.WithDescription("Check-in attempts by result"),
		metric.WithUnit("{check_ins}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create check-in counter: %w", err)
	}

	return m, nil
}

// RecordSweep records one sweep run and its per-outcome tallies.
func (m *GymMetrics) RecordSweep(ctx context.Context, stats SweepStats) {
	if m == nil {
		return
	}
	trigger := AttrTrigger.String(triggerName(stats.Manual))
	m.sweepRuns.Add(ctx, 1, metric.WithAttributes(trigger, AttrResult.String(stats.Result)))
	if stats.Result != SweepResultCompleted {
		return
	}

	m.sweepDuration.Record(ctx, stats.Duration.Seconds(), metric.WithAttributes(trigger))
	for outcome, n := range map[string]int{
		"sent":         stats.Sent,
		"failed":       stats.Failed,
		"skipped":      stats.Skipped,
		"deduplicated": stats.Deduplicated,
		"error":        stats.Errors,
	} {
		if n > 0 {
			m.sweepMemberships.Add(ctx, int64(n), metric.WithAttributes(trigger, AttrOutcome.String(outcome)))
		}
	}
}

// RecordDispatch records one dispatch decision.
func (m *GymMetrics) RecordDispatch(ctx context.Context, tenantID uuid.UUID, category, outcome string) {
	if m == nil {
		return
	}
	m.dispatches.Add(ctx, 1, metric.WithAttributes(
		AttrTenantID.String(tenantID.String()),
		AttrCategory.String(category),
		AttrOutcome.String(outcome),
	))
}

// RecordCheckIn records one check-in attempt.
func (m *GymMetrics) RecordCheckIn(ctx context.Context, tenantID uuid.UUID, result string) {
	if m == nil {
		return
	}
	m.checkIns.Add(ctx, 1, metric.WithAttributes(
		AttrTenantID.String(tenantID.String()),
		AttrResult.String(result),
	))
}

// RegisterChannelGauge reports the number of live messaging channels on every collection.
func RegisterChannelGauge(meter metric.Meter, count func() int) error {
	if meter == nil {
		return ErrMeterNil
	}
	_, err := meter.Int64ObservableGauge("gym_messaging_channels",
		metric.WithDescription("Live per-tenant messaging channels"),
		metric.WithUnit("{channels}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(count()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create channel gauge: %w", err)
	}
	return nil
}

// RegisterPoolGauges reports database pool usage on every collection
func RegisterPoolGauges(meter metric.Meter, stats func() sql.DBStats) error {
	if meter == nil {
		return ErrMeterNil
	}
	inUse, err := meter.Int64ObservableGauge("gym_db_connections_in_use",
		metric.WithDescription("Database connections currently in use"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	idle, err := meter.Int64ObservableGauge("gym_db_connections_idle",
		metric.WithDescription("Idle database connections"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return fmt.Errorf("failed to create pool gauge: %w", err)
	}
	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		s := stats()
		o.ObserveInt64(inUse, int64(s.InUse))
		o.ObserveInt64(idle, int64(s.Idle))
		return nil
	}, inUse, idle)
	if err != nil {
		return fmt.Errorf("failed to register pool callback: %w", err)
	}
	return nil
}

func triggerName(manual bool) string {
	if manual {
		return "manual"
	}
	return "scheduled"
}
