package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// everySchedule fires at a fixed sub-second interval
type everySchedule struct {
	interval time.Duration
}

func (e everySchedule) Next(t time.Time) time.Time {
	return t.Add(e.interval)
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name  string
		expr  string
		valid bool
	}{
		{"daily at nine", "0 9 * * *", true},
		{"twice a day", "0 9,18 * * *", true},
		{"descriptor", "@daily", true},
		{"too few fields", "0 9 *", false},
		{"bad hour", "0 25 * * *", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(tt.expr)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}

func TestSweepScheduler_NextRunInTimezone(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)

	s, err := NewSweepScheduler(SweepSchedulerConfig{CronSchedule: "0 9 * * *", Location: loc}, func(ctx context.Context) error { return nil }, zap.NewNop())
	require.NoError(t, err)

	// 10:00 UTC is 07:00 at UTC-3, so the next run is 09:00 local the same day.
	from := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC).In(loc)
	next := s.schedule.Next(from)
	assert.Equal(t, time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), next.UTC())
}

func TestSweepScheduler_Fires(t *testing.T) {
	var calls atomic.Int32
	s := NewSweepSchedulerWithSchedule(
		SweepSchedulerConfig{CronSchedule: "test"},
		everySchedule{interval: 10 * time.Millisecond},
		func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
		zap.NewNop(),
	)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRun().IsZero())

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load())
}

func TestSweepScheduler_SkipsOverlappingTicks(t *testing.T) {
	release := make(chan struct{})
	var concurrent, maxConcurrent atomic.Int32

	s := NewSweepSchedulerWithSchedule(
		SweepSchedulerConfig{CronSchedule: "test"},
		everySchedule{interval: 5 * time.Millisecond},
		func(ctx context.Context) error {
			n := concurrent.Add(1)
			defer concurrent.Add(-1)
			for {
				m := maxConcurrent.Load()
				if n <= m || maxConcurrent.CompareAndSwap(m, n) {
					break
				}
			}
			select {
			case <-release:
			case <-ctx.Done():
			}
			return nil
		},
		zap.NewNop(),
	)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool {
		_, skipped := s.Stats()
		return skipped >= 2
	}, time.Second, 5*time.Millisecond)

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	assert.Equal(t, int32(1), maxConcurrent.Load())
}

func TestSweepScheduler_SurvivesSweepFailures(t *testing.T) {
	var calls atomic.Int32
	s := NewSweepSchedulerWithSchedule(
		SweepSchedulerConfig{CronSchedule: "test"},
		everySchedule{interval: 5 * time.Millisecond},
		func(ctx context.Context) error {
			if calls.Add(1) == 1 {
				panic("boom")
			}
			return errors.New("store down")
		},
		zap.NewNop(),
	)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestSweepScheduler_StopWhenNotRunning(t *testing.T) {
	s, err := NewSweepScheduler(DefaultSweepSchedulerConfig(), func(ctx context.Context) error { return nil }, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Stop(context.Background()))
}

func TestNewSweepScheduler_InvalidCron(t *testing.T) {
	_, err := NewSweepScheduler(SweepSchedulerConfig{CronSchedule: "every day"}, func(ctx context.Context) error { return nil }, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
