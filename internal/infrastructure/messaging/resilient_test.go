package messaging

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// stubChannel counts calls and returns err
type stubChannel struct {
	calls atomic.Int32
	err   error
}

func (s *stubChannel) Send(ctx context.Context, recipient, text string) error {
	s.calls.Add(1)
	return s.err
}

func (s *stubChannel) Close() error { return nil }

func TestResilientChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("opens after consecutive provider failures", func(t *testing.T) {
		inner := &stubChannel{err: &DeliveryError{Code: ErrorCodeServerError, StatusCode: 502}}
		ch := NewResilientChannel("t", inner, ResilienceOptions{BreakerMaxFailures: 3, BreakerTimeout: time.Hour}, zap.NewNop())

		for i := 0; i < 3; i++ {
			assert.Error(t, ch.Send(ctx, "1", "x"))
		}
		assert.Equal(t, "open", ch.State())

		err := ch.Send(ctx, "1", "x")
		assert.ErrorIs(t, err, ErrCircuitOpen)
		assert.Equal(t, int32(3), inner.calls.Load())
	})

	t.Run("recipient errors do not trip the breaker", func(t *testing.T) {
		inner := &stubChannel{err: &DeliveryError{Code: ErrorCodeRecipientNotFound}}
		ch := NewResilientChannel("t", inner, ResilienceOptions{BreakerMaxFailures: 2, BreakerTimeout: time.Hour}, zap.NewNop())

		for i := 0; i < 5; i++ {
			err := ch.Send(ctx, "1", "x")
			assert.True(t, IsRecipientError(err))
		}
		assert.Equal(t, "closed", ch.State())
		assert.Equal(t, int32(5), inner.calls.Load())
	})

	t.Run("closed channel refuses to send", func(t *testing.T) {
		inner := &stubChannel{}
		ch := NewResilientChannel("t", inner, ResilienceOptions{}, nil)
		require.NoError(t, ch.Close())

		assert.ErrorIs(t, ch.Send(ctx, "1", "x"), ErrChannelClosed)
		assert.Zero(t, inner.calls.Load())
	})

	t.Run("rate limit wait honours context", func(t *testing.T) {
		inner := &stubChannel{}
		ch := NewResilientChannel("t", inner, ResilienceOptions{RatePerSecond: 0.001, Burst: 1}, zap.NewNop())

		require.NoError(t, ch.Send(ctx, "1", "x"))

		short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		assert.Error(t, ch.Send(short, "1", "x"))
		assert.Equal(t, int32(1), inner.calls.Load())
	})
}

func TestResilientChannel_ClientSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	inner := &stubChannel{err: &DeliveryError{Code: ErrorCodeServerError, StatusCode: 502}}
	ch := NewResilientChannel("tenant-a", inner, ResilienceOptions{BreakerMaxFailures: 1, BreakerTimeout: time.Hour}, zap.NewNop())

	assert.Error(t, ch.Send(context.Background(), "1", "x"))
	assert.ErrorIs(t, ch.Send(context.Background(), "1", "x"), ErrCircuitOpen)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "messaging.send", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "circuit_open", spans[1].Events()[0].Name)
}
