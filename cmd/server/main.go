package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/gymdesk/backend/docs"
	gymapp "github.com/gymdesk/backend/internal/application/gym"
	identityapp "github.com/gymdesk/backend/internal/application/identity"
	notifyapp "github.com/gymdesk/backend/internal/application/notification"
	"github.com/gymdesk/backend/internal/domain/gym"
	"github.com/gymdesk/backend/internal/domain/identity"
	"github.com/gymdesk/backend/internal/domain/notification"
	"github.com/gymdesk/backend/internal/domain/shared"
	"github.com/gymdesk/backend/internal/infrastructure/cache"
	"github.com/gymdesk/backend/internal/infrastructure/config"
	"github.com/gymdesk/backend/internal/infrastructure/event"
	"github.com/gymdesk/backend/internal/infrastructure/logger"
	"github.com/gymdesk/backend/internal/infrastructure/messaging"
	"github.com/gymdesk/backend/internal/infrastructure/persistence"
	"github.com/gymdesk/backend/internal/infrastructure/scheduler"
	"github.com/gymdesk/backend/internal/infrastructure/telemetry"
	"github.com/gymdesk/backend/internal/interfaces/http/handler"
	"github.com/gymdesk/backend/internal/interfaces/http/middleware"
	"github.com/gymdesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			GymDesk Backend API
//	@version		1.0
//	@description	Multi-tenant gym front desk: members, memberships, check-ins and expiration notices.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	TenantHeader
//	@in							header
//	@name						X-Tenant-ID

const eventHandlerTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry first so the log bridge can be attached to the final logger
	providers, err := telemetry.Setup(ctx, telemetry.ConfigFrom(&cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if cfg.Telemetry.LogsEnabled {
		log, err = logger.New(logCfg, providers.LogCore(logger.ParseLevel(cfg.Log.Level)))
		if err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting GymDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(&cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Telemetry.Profiling.SpanProfiles && !providers.EnableSpanProfiles(profiler) {
		log.Warn("Span profiles need both telemetry and profiling enabled")
	}

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		log.Fatal("Invalid scheduler timezone", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Send claims and the sweep lock
	coordination, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize coordination backend", zap.Error(err))
	}
	defer func() {
		_ = coordination.Close()
	}()

	// Metrics
	meter := providers.Meter("github.com/gymdesk/backend")
	metrics, err := telemetry.NewGymMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create gym metrics", zap.Error(err))
	}

	// Repositories
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	disciplineRepo := persistence.NewGormDisciplineRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	attemptRepo := persistence.NewGormNotificationAttemptRepository(db.DB)

	clock := shared.SystemClock{}

	// Live messaging channels
	channels := messaging.NewRegistry(messaging.NewTelegramFactory(cfg.Messaging, log), log)
	if err := telemetry.RegisterChannelGauge(meter, channels.Count); err != nil {
		log.Fatal("Failed to register channel gauge", zap.Error(err))
	}
	if err := telemetry.RegisterPoolGauges(meter, db.PoolStats); err != nil {
		log.Fatal("Failed to register pool gauges", zap.Error(err))
	}
	bootstrapChannels(ctx, tenantRepo, channels, log)

	// Notification core
	renderer, err := notification.NewRenderer(templateOverrides(cfg.Messaging.Templates))
	if err != nil {
		log.Fatal("Failed to parse message templates", zap.Error(err))
	}
	ledger := notifyapp.NewDedupLedger(attemptRepo, attendanceRepo, clock, loc, log)
	dispatcher := notifyapp.NewDispatcher(channels, renderer, ledger, clock, log,
		notifyapp.WithSendClaims(coordination.Claims, cfg.Scheduler.ClaimTTL),
		notifyapp.WithDispatchMetrics(metrics),
	)
	sweep := notifyapp.NewExpirationSweep(
		membershipRepo, memberRepo, disciplineRepo, tenantRepo,
		ledger, dispatcher, coordination.RunLock, clock,
		notifyapp.SweepConfig{
			LookaheadDays:     cfg.Scheduler.LookaheadDays,
			AllowManualBypass: cfg.Scheduler.AllowManualBypass,
			RunLockTTL:        cfg.Scheduler.RunLockTTL,
		},
		metrics, log,
	)

	// Event bus: welcome messages and channel reconcile run off the request path
	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(eventHandlerTimeout))
	welcomeHandler := notifyapp.NewWelcomeHandler(tenantRepo, memberRepo, ledger, dispatcher, log)
	eventBus.Subscribe(welcomeHandler, gym.EventTypeMemberRecipientLinked)
	reconciler := notifyapp.NewChannelReconciler(channels, tenantRepo, log)
	eventBus.Subscribe(reconciler, reconciler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	tenantService := identityapp.NewTenantService(tenantRepo, eventBus, clock, log)
	memberService := gymapp.NewMemberService(memberRepo, tenantRepo, eventBus, clock, log)
	disciplineService := gymapp.NewDisciplineService(disciplineRepo, tenantRepo, clock, log)
	membershipService := gymapp.NewMembershipService(membershipRepo, memberRepo, disciplineRepo, tenantRepo, eventBus, clock, log)
	checkInService := gymapp.NewCheckInService(memberRepo, membershipRepo, attendanceRepo, tenantRepo, ledger, clock, metrics, log)

	// HTTP
	notificationHandler := handler.NewNotificationHandler(sweep)
	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		RateLimitRPS:   cfg.HTTP.RateLimitRPS,
		RateLimitBurst: cfg.HTTP.RateLimitBurst,
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.HTTP.Swagger.Enabled,
			AllowedIPs: cfg.HTTP.Swagger.AllowedIPs,
		},
	}, router.Handlers{
		System: handler.NewSystemHandler(telemetry.ServiceVersion, map[string]handler.HealthCheck{
			"database": db.Ping,
		}),
		Tenant:        handler.NewTenantHandler(tenantService),
		Member:        handler.NewMemberHandler(memberService, disciplineService),
		Membership:    handler.NewMembershipHandler(membershipService),
		CheckIn:       handler.NewCheckInHandler(checkInService),
		Notifications: notificationHandler,
	}, log)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// Scheduled sweep
	var sweepScheduler *scheduler.SweepScheduler
	if cfg.Scheduler.Enabled {
		sweepScheduler, err = scheduler.NewSweepScheduler(scheduler.SweepSchedulerConfig{
			CronSchedule: cfg.Scheduler.CronSchedule,
			Location:     loc,
			RunTimeout:   cfg.Scheduler.RunLockTTL,
		}, func(ctx context.Context) error {
			_, err := sweep.Run(ctx, false)
			return err
		}, log)
		if err != nil {
			log.Fatal("Failed to create sweep scheduler", zap.Error(err))
		}
		if err := sweepScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start sweep scheduler", zap.Error(err))
		}
	} else {
		log.Info("Sweep scheduler disabled")
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := notificationHandler.Drain(shutdownCtx); err != nil {
		log.Error("Manual sweep still running at shutdown", zap.Error(err))
	}
	if sweepScheduler != nil {
		if err := sweepScheduler.Stop(shutdownCtx); err != nil {
			log.Error("Sweep scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	channels.StopAll()
	if err := profiler.Stop(); err != nil {
		log.Error("Profiler did not stop cleanly", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// bootstrapChannels starts a live channel for every tenant with messaging on.
// A failure here leaves the service up without outbound messages.
func bootstrapChannels(ctx context.Context, tenants identity.TenantRepository, channels *messaging.Registry, log *zap.Logger) {
	enabled, err := tenants.FindWithMessagingEnabled(ctx)
	if err != nil {
		log.Error("Failed to load tenants with messaging enabled", zap.Error(err))
		return
	}
	started := channels.Bootstrap(ctx, enabled)
	log.Info("Messaging channels started",
		zap.Int("started", started),
		zap.Int("configured", len(enabled)),
	)
}

func templateOverrides(cfg config.TemplateConfig) map[notification.Bucket]string {
	return map[notification.Bucket]string{
		notification.BucketWelcome:     cfg.Welcome,
		notification.BucketExpiringIn7: cfg.ExpiringIn7,
		notification.BucketExpiringIn3: cfg.ExpiringIn3,
		notification.BucketExpired:     cfg.Expired,
	}
}
