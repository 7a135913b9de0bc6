package telemetry

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/gymdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

func TestProfilerConfigFrom(t *testing.T) {
	cfg := ProfilerConfigFrom(&config.TelemetryConfig{
		ServiceName: "gymdesk-backend",
		Profiling: config.ProfilingConfig{
			Enabled:       true,
			ServerAddress: "http://pyroscope:4040",
			Types:         []string{"cpu"},
		},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "gymdesk-backend", cfg.ApplicationName)
	assert.Equal(t, "http://pyroscope:4040", cfg.ServerAddress)
	assert.Equal(t, []string{"cpu"}, cfg.Types)
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled profiler is a no-op", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.Enabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("server address is required", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "gym"}, zap.NewNop())
		assert.ErrorContains(t, err, "server address")
	})

	t.Run("application name is required", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
		assert.ErrorContains(t, err, "application name")
	})

	t.Run("unknown profile type", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{
			Enabled:         true,
			ServerAddress:   "http://pyroscope:4040",
			ApplicationName: "gym",
			Types:           []string{"cpu", "heap"},
		}, zap.NewNop())
		assert.ErrorContains(t, err, `"heap"`)
	})
}

func TestResolveProfileTypes(t *testing.T) {
	types, err := resolveProfileTypes([]string{"cpu", "mutex"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, types)

	none, err := resolveProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProviders_EnableSpanProfiles(t *testing.T) {
	original := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(original) })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	running := &Profiler{profiler: &pyroscope.Profiler{}, logger: zap.NewNop()}

	t.Run("needs the OTLP providers", func(t *testing.T) {
		p := &Providers{logger: zap.NewNop()}
		assert.False(t, p.EnableSpanProfiles(running))
	})

	t.Run("needs a running profiler", func(t *testing.T) {
		p := &Providers{logger: zap.NewNop(), tracer: tp}
		assert.False(t, p.EnableSpanProfiles(&Profiler{logger: zap.NewNop()}))
		assert.False(t, p.EnableSpanProfiles(nil))
	})

	t.Run("wraps the global tracer provider", func(t *testing.T) {
		p := &Providers{logger: zap.NewNop(), tracer: tp}
		require.True(t, p.EnableSpanProfiles(running))

		assert.NotSame(t, tp, otel.GetTracerProvider())
		assert.NotNil(t, p.Tracer("test"))
	})
}
