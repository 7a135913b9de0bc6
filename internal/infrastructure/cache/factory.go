package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Coordination bundles the send-claim store and the sweep run lock.
// Both are Redis-backed when Redis is reachable, in-process otherwise.
type Coordination struct {
	Claims  shared.ClaimStore
	RunLock shared.RunLock
	Backend string
}

// Close releases the claim store and its Redis client
func (c *Coordination) Close() error {
	if c.Claims == nil {
		return nil
	}
	return c.Claims.Close()
}

// Factory creates coordination primitives based on configuration
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-process primitives when Redis is unavailable.
// Default is true (allow fallback).
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// Create builds the coordination primitives. Redis is tried first when enabled,
// and the in-process versions are used when it is disabled or, if fallback is
// allowed, unreachable.
func (f *Factory) Create() (*Coordination, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-process send claims and sweep lock")
		return inMemoryCoordination(), nil
	}

	client, err := NewRedisClient(f.redisConfig)
	if err == nil {
		f.logger.Info("Using Redis send claims and sweep lock", zap.String("addr", f.redisConfig.Addr()))
		return &Coordination{
			Claims:  NewRedisClaimStore(client, ""),
			RunLock: NewRedisRunLock(client, ""),
			Backend: "redis",
		}, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for coordination but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-process send claims and sweep lock. "+
		"Concurrent instances may race on the same notification until the database backstop rejects it.",
		zap.Error(err),
	)
	return inMemoryCoordination(), nil
}

func inMemoryCoordination() *Coordination {
	return &Coordination{
		Claims:  NewInMemoryClaimStore(),
		RunLock: NewInMemoryRunLock(),
		Backend: "memory",
	}
}
