package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrSweepInProgress is returned when another sweep holds the run lock
var ErrSweepInProgress = errors.New("expiration sweep already in progress")

// SweepLockKey is the run lock shared by the scheduler and manual triggers
const SweepLockKey = "sweep:expiration"

// SweepConfig holds expiration sweep settings
type SweepConfig struct {
	LookaheadDays     int
	AllowManualBypass bool
	RunLockTTL        time.Duration
}

// DefaultSweepConfig returns the default sweep settings
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		LookaheadDays: 8,
		RunLockTTL:    30 * time.Minute,
	}
}

// SweepSummary tallies one sweep run
type SweepSummary struct {
	Manual       bool          `json:"manual"`
	Bypassed     bool          `json:"bypassed"`
	StartedAt    time.Time     `json:"started_at"`
	Candidates   int           `json:"candidates"`
	Sent         int           `json:"sent"`
	Failed       int           `json:"failed"`
	Skipped      int           `json:"skipped"`
	Deduplicated int           `json:"deduplicated"`
	Errors       int           `json:"errors"`
	Duration     time.Duration `json:"duration"`
}

// ExpirationSweep classifies active memberships that end soon and dispatches
// the matching notification, at most once per member, category and day.
type ExpirationSweep struct {
	memberships gym.MembershipRepository
	members     gym.MemberRepository
	disciplines gym.DisciplineRepository
	tenants     identity.TenantRepository
	ledger      *DedupLedger
	dispatcher  *Dispatcher
	lock        shared.RunLock
	clock       shared.Clock
	config      SweepConfig
	metrics     *telemetry.GymMetrics
	logger      *zap.Logger
}

// NewExpirationSweep creates a new expiration sweep
func NewExpirationSweep(
	memberships gym.MembershipRepository,
	members gym.MemberRepository,
	disciplines gym.DisciplineRepository,
	tenants identity.TenantRepository,
	ledger *DedupLedger,
	dispatcher *Dispatcher,
	lock shared.RunLock,
	clock shared.Clock,
	config SweepConfig,
	metrics *telemetry.GymMetrics,
	logger *zap.Logger,
) *ExpirationSweep {
	defaults := DefaultSweepConfig()
	if config.LookaheadDays <= 0 {
		config.LookaheadDays = defaults.LookaheadDays
	}
	if config.RunLockTTL <= 0 {
		config.RunLockTTL = defaults.RunLockTTL
	}
	return &ExpirationSweep{
		memberships: memberships,
		members:     members,
		disciplines: disciplines,
		tenants:     tenants,
		ledger:      ledger,
		dispatcher:  dispatcher,
		lock:        lock,
		clock:       clock,
		config:      config,
		metrics:     metrics,
		logger:      logger,
	}
}

// SweepFunc performs a sweep whose run lock is already held and releases the
// lock when it returns. It must be called exactly once.
type SweepFunc func(ctx context.Context) (*SweepSummary, error)

// Run executes one sweep. A manual run skips the once-per-day check only when
// manual bypass is allowed by configuration. Per-member failures are absorbed
// into the summary; only lock and candidate-load failures are returned.
func (s *ExpirationSweep) Run(ctx context.Context, manual bool) (*SweepSummary, error) {
	sweep, err := s.Start(ctx, manual)
	if err != nil {
		return nil, err
	}
	return sweep(ctx)
}

// Start takes the run lock and returns the sweep to perform under it, or
// ErrSweepInProgress when another run holds the lock. The returned sweep is
// bounded by the lock TTL so the lock cannot lapse while it is still working.
func (s *ExpirationSweep) Start(ctx context.Context, manual bool) (SweepFunc, error) {
	release, acquired, err := s.lock.TryAcquire(ctx, SweepLockKey, s.config.RunLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sweep lock: %w", err)
	}
	if !acquired {
		s.logger.Info("Expiration sweep already running, skipping", zap.Bool("manual", manual))
		s.metrics.RecordSweep(ctx, telemetry.SweepStats{Manual: manual, Result: telemetry.SweepResultLocked})
		return nil, ErrSweepInProgress
	}
	return func(ctx context.Context) (*SweepSummary, error) {
		defer release()
		ctx, cancel := context.WithTimeout(ctx, s.config.RunLockTTL)
		defer cancel()

		var summary *SweepSummary
		var err error
		labels := telemetry.OperationLabels("expiration_sweep", map[string]string{
			telemetry.ProfilingLabelTrigger: sweepTrigger(manual),
		})
		telemetry.WithProfilingLabels(ctx, labels, func(ctx context.Context) {
			summary, err = s.run(ctx, manual)
		})
		return summary, err
	}, nil
}

func sweepTrigger(manual bool) string {
	if manual {
		return "manual"
	}
	return "scheduled"
}

func (s *ExpirationSweep) run(ctx context.Context, manual bool) (*SweepSummary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "expiration_sweep", "run",
		telemetry.WithAttribute(telemetry.SpanAttrManual, manual),
	)
	defer span.End()

	started := time.Now()
	loc := s.ledger.Location()
	now := s.clock.Now()
	summary := &SweepSummary{
		Manual:    manual,
		Bypassed:  manual && s.config.AllowManualBypass,
		StartedAt: now,
	}

	today := shared.StartOfDay(now, loc)
	horizonEnd := today.AddDate(0, 0, s.config.LookaheadDays+1)

	candidates, err := s.memberships.FindActiveEndingBetween(ctx, today, horizonEnd)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordSweep(ctx, telemetry.SweepStats{Manual: manual, Result: telemetry.SweepResultFailed})
		return nil, fmt.Errorf("failed to load sweep candidates: %w", err)
	}
	summary.Candidates = len(candidates)

	run := &sweepRun{
		sweep:       s,
		summary:     summary,
		now:         now,
		loc:         loc,
		tenants:     s.loadTenants(ctx, candidates),
		disciplines: make(map[uuid.UUID]*gym.Discipline),
	}
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("Expiration sweep interrupted", zap.Error(err))
			break
		}
		run.process(ctx, &candidates[i])
	}

	summary.Duration = time.Since(started)

	telemetry.SetAttributes(span,
		"sweep.candidates", summary.Candidates,
		"sweep.sent", summary.Sent,
		"sweep.failed", summary.Failed,
	)
	s.metrics.RecordSweep(ctx, telemetry.SweepStats{
		Manual:       manual,
		Result:       telemetry.SweepResultCompleted,
		Candidates:   summary.Candidates,
		Sent:         summary.Sent,
		Failed:       summary.Failed,
		Skipped:      summary.Skipped,
		Deduplicated: summary.Deduplicated,
		Errors:       summary.Errors,
		Duration:     summary.Duration,
	})
	s.logger.Info("Expiration sweep completed",
		zap.Bool("manual", summary.Manual),
		zap.Bool("bypassed", summary.Bypassed),
		zap.Int("candidates", summary.Candidates),
		zap.Int("sent", summary.Sent),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("deduplicated", summary.Deduplicated),
		zap.Int("errors", summary.Errors),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// loadTenants fetches every tenant referenced by the candidates in one query.
// A failed lookup leaves the map empty and those memberships are counted as errors.
func (s *ExpirationSweep) loadTenants(ctx context.Context, candidates []gym.Membership) map[uuid.UUID]*identity.Tenant {
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, m := range candidates {
		if !seen[m.TenantID] {
			seen[m.TenantID] = true
			ids = append(ids, m.TenantID)
		}
	}

	tenants := make(map[uuid.UUID]*identity.Tenant, len(ids))
	if len(ids) == 0 {
		return tenants
	}
	found, err := s.tenants.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load sweep tenants", zap.Error(err))
		return nil
	}
	for i := range found {
		tenants[found[i].ID] = &found[i]
	}
	return tenants
}

// sweepRun holds the per-run lookups and the running tally
type sweepRun struct {
	sweep       *ExpirationSweep
	summary     *SweepSummary
	now         time.Time
	loc         *time.Location
	tenants     map[uuid.UUID]*identity.Tenant
	disciplines map[uuid.UUID]*gym.Discipline
}

func (r *sweepRun) process(ctx context.Context, m *gym.Membership) {
	s := r.sweep
	log := s.logger.With(
		zap.String("tenant_id", m.TenantID.String()),
		zap.String("membership_id", m.ID.String()),
		zap.String("member_id", m.MemberID.String()),
	)

	bucket, daysLeft := notification.Classify(m.EndDate, r.now, r.loc)
	category, ok := bucket.Category()
	if !ok {
		r.summary.Skipped++
		return
	}

	if r.tenants == nil {
		r.summary.Errors++
		return
	}
	tenant, ok := r.tenants[m.TenantID]
	if !ok || !tenant.IsActive() {
		log.Debug("Tenant missing or not active, skipping membership")
		r.summary.Skipped++
		return
	}

	member, err := s.members.FindByID(ctx, m.TenantID, m.MemberID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Member of active membership not found, skipping")
			r.summary.Skipped++
			return
		}
		log.Error("Failed to load member", zap.Error(err))
		r.summary.Errors++
		return
	}

	discipline, err := r.discipline(ctx, m)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Discipline of active membership not found, skipping")
			r.summary.Skipped++
			return
		}
		log.Error("Failed to load discipline", zap.Error(err))
		r.summary.Errors++
		return
	}

	if !r.summary.Bypassed {
		sent, err := s.ledger.WasNotifiedToday(ctx, m.TenantID, m.MemberID, category)
		if err != nil {
			log.Error("Failed to check notification ledger", zap.Error(err))
			r.summary.Errors++
			return
		}
		if sent {
			r.summary.Deduplicated++
			return
		}
	}

	outcome := s.dispatcher.Dispatch(ctx, DispatchRequest{
		Tenant:     tenant,
		Member:     member,
		Membership: m,
		Discipline: discipline,
		Bucket:     bucket,
		DaysLeft:   daysLeft,
		UseClaim:   !r.summary.Bypassed,
		Manual:     r.summary.Bypassed,
	})
	switch outcome {
	case OutcomeSent:
		r.summary.Sent++
	case OutcomeFailed:
		r.summary.Failed++
	case OutcomeDeduplicated:
		r.summary.Deduplicated++
	default:
		r.summary.Skipped++
	}
}

func (r *sweepRun) discipline(ctx context.Context, m *gym.Membership) (*gym.Discipline, error) {
	if d, ok := r.disciplines[m.DisciplineID]; ok {
		return d, nil
	}
	d, err := r.sweep.disciplines.FindByID(ctx, m.TenantID, m.DisciplineID)
	if err != nil {
		return nil, err
	}
	r.disciplines[m.DisciplineID] = d
	return d, nil
}
