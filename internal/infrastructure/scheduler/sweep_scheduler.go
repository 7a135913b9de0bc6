package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SweepFunc runs one expiration sweep
type SweepFunc func(ctx context.Context) error

// SweepSchedulerConfig holds configuration for the sweep scheduler
type SweepSchedulerConfig struct {
	// CronSchedule is a standard 5-field cron expression, evaluated in Location
	CronSchedule string
	// Location is the timezone the schedule is evaluated in
	Location *time.Location
	// RunTimeout bounds a single sweep
	RunTimeout time.Duration
}

// DefaultSweepSchedulerConfig returns default configuration: daily at 09:00 UTC
func DefaultSweepSchedulerConfig() SweepSchedulerConfig {
	return SweepSchedulerConfig{
		CronSchedule: "0 9 * * *",
		Location:     time.UTC,
		RunTimeout:   30 * time.Minute,
	}
}

// ParseSchedule parses a standard cron expression
func ParseSchedule(expr string) (cron.Schedule, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: cron %q: %v", ErrInvalidConfig, expr, err)
	}
	return schedule, nil
}

// SweepScheduler fires the sweep on a cron cadence. A tick that arrives while
// the previous sweep is still running is skipped, never queued.
type SweepScheduler struct {
	config   SweepSchedulerConfig
	schedule cron.Schedule
	sweep    SweepFunc
	logger   *zap.Logger
	now      func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  atomic.Bool
	nextRun   time.Time
	runs      atomic.Int64
	skipped   atomic.Int64
}

// NewSweepScheduler creates a scheduler from config
func NewSweepScheduler(config SweepSchedulerConfig, sweep SweepFunc, logger *zap.Logger) (*SweepScheduler, error) {
	schedule, err := ParseSchedule(config.CronSchedule)
	if err != nil {
		return nil, err
	}
	return NewSweepSchedulerWithSchedule(config, schedule, sweep, logger), nil
}

// NewSweepSchedulerWithSchedule creates a scheduler driven by an already parsed schedule
func NewSweepSchedulerWithSchedule(config SweepSchedulerConfig, schedule cron.Schedule, sweep SweepFunc, logger *zap.Logger) *SweepScheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SweepScheduler{
		config:   config,
		schedule: schedule,
		sweep:    sweep,
		logger:   logger,
		now:      time.Now,
	}
}

// Start starts the scheduler loop
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Sweep scheduler started",
		zap.String("cron", s.config.CronSchedule),
		zap.String("timezone", s.config.Location.String()),
	)
	return nil
}

// Stop stops the scheduler and waits for an in-flight sweep to finish or ctx to expire
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *SweepScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// NextRun returns the next planned fire time, zero when stopped
func (s *SweepScheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRun
}

// Stats returns how many ticks ran a sweep and how many were skipped for overlap
func (s *SweepScheduler) Stats() (runs, skipped int64) {
	return s.runs.Load(), s.skipped.Load()
}

// runLoop sleeps until each scheduled time and fires the sweep
func (s *SweepScheduler) runLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := s.schedule.Next(s.now().In(s.config.Location))
		s.mu.Lock()
		s.nextRun = next
		s.mu.Unlock()

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.mu.Lock()
			s.nextRun = time.Time{}
			s.mu.Unlock()
			return
		case <-timer.C:
			s.fire(ctx)
		}
	}
}

// fire starts a sweep in the background unless one is still running
func (s *SweepScheduler) fire(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.logger.Warn("Previous sweep still running, skipping scheduled tick")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.inFlight.Store(false)
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("Sweep panicked", zap.Any("panic", r), zap.Stack("stack"))
			}
		}()

		runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()

		s.runs.Add(1)
		if err := s.sweep(runCtx); err != nil {
			s.logger.Warn("Scheduled sweep did not complete", zap.Error(err))
		}
	}()
}
