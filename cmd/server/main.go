package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	documentapp "github.com/dansever/estait-app-sub000/internal/application/document"
	leasingapp "github.com/dansever/estait-app-sub000/internal/application/leasing"
	ledgerapp "github.com/dansever/estait-app-sub000/internal/application/ledger"
	maintenanceapp "github.com/dansever/estait-app-sub000/internal/application/maintenance"
	propertyapp "github.com/dansever/estait-app-sub000/internal/application/property"
	"github.com/dansever/estait-app-sub000/internal/domain/shared"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/auth"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/cache"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/config"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/event"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/logger"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/persistence"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/printing"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/scheduler"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/storage"
	"github.com/dansever/estait-app-sub000/internal/infrastructure/telemetry"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/handler"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/middleware"
	"github.com/dansever/estait-app-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	_ "github.com/dansever/estait-app-sub000/docs"
)

//	@title			Estait API
//	@version		1.0
//	@description	Property, lease and rental ledger API for landlords.

//	@contact.name	API Support
//	@contact.url	https://github.com/dansever/estait-app-sub000

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	jobLeaseStatusSweep = "lease_status_sweep"
	jobRentCharge       = "rent_charge"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bootstrap logger used until the OTLP log pipeline is up
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	telCfg := telemetry.ConfigFrom(cfg.Telemetry, version)
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Estait API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Location().String()),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer shutdownTelemetry(log, tracerProvider, meterProvider, logProvider)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfigFrom(cfg.Profiling), log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Warn("Profiler stop failed", zap.Error(err))
		}
	}()
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter("estait")

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.GormMode),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, meter, telemetry.DBConfigFrom(cfg.Telemetry, cfg.Database.DBName), log); err != nil {
		log.Warn("Database instrumentation disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	idempotencyStore, err := cache.OpenIdempotencyStore(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	objectStorage, err := newObjectStorage(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	clock := shared.SystemClock{Location: cfg.App.Location()}

	// Repositories
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	taskRepo := persistence.NewGormTaskRepository(db.DB)
	docRepo := persistence.NewGormDocumentRepository(db.DB)

	leaseMetrics, err := telemetry.NewLeaseMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create lease metrics", zap.Error(err))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log, event.WithDispatchObserver(func(ctx context.Context, eventType string, err error) {
		if err != nil {
			logger.FromContext(ctx).Warn("Event handler failed", zap.String("event_type", eventType), zap.Error(err))
		}
	}))
	notifier := leasingapp.NewLeaseStatusNotifier(log).WithRecorder(leaseMetrics)
	eventBus.Subscribe(event.NewIdempotentHandler(notifier, idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.Event.IdempotencyTTL,
			Enabled: cfg.Event.IdempotencyEnabled,
		}),
		event.WithDeliveryMeter(meter),
	))
	log.Info("Event handlers registered", zap.Strings("lease_status_events", notifier.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	docOpts := []documentapp.ServiceOption{
		documentapp.WithClock(clock),
		documentapp.WithLogger(log),
		documentapp.WithURLExpiry(cfg.Storage.PresignTTL),
	}
	if cfg.Printing.Enabled {
		renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.RemoteURL,
			ExecPath:       cfg.Printing.ChromePath,
			NoSandbox:      cfg.Printing.NoSandbox,
			MaxConcurrent:  cfg.Printing.MaxConcurrent,
			Logger:         log,
		})
		if err != nil {
			log.Fatal("Failed to initialize statement renderer", zap.Error(err))
		}
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing statement renderer", zap.Error(err))
			}
		}()
		docOpts = append(docOpts, documentapp.WithStatementRenderer(
			printing.NewStatementPrinter(renderer, log), tenantRepo, txRepo))
		log.Info("Lease statements enabled", zap.Bool("remote_chrome", cfg.Printing.RemoteURL != ""))
	}

	leaseService := leasingapp.NewLeaseService(leaseRepo, propertyRepo, tenantRepo, eventBus, clock)
	propertyService := propertyapp.NewPropertyService(propertyRepo, leaseRepo, taskRepo, txRepo, eventBus, clock)
	tenantService := propertyapp.NewTenantService(tenantRepo, leaseRepo, eventBus)
	txService := ledgerapp.NewTransactionService(txRepo, propertyRepo, leaseRepo, eventBus, clock)
	taskService := maintenanceapp.NewTaskService(taskRepo, propertyRepo, eventBus, clock)
	docService := documentapp.NewDocumentService(docRepo, propertyRepo, leaseRepo, objectStorage, eventBus, docOpts...)

	// Background jobs
	if cfg.Scheduler.Enabled {
		stopJobs, err := startJobs(ctx, cfg, log, jobDeps{
			leaseRepo:   leaseRepo,
			txRepo:      txRepo,
			publisher:   eventBus,
			clock:       clock,
			store:       idempotencyStore,
			leaseMetric: leaseMetrics,
		})
		if err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer stopJobs()
	}

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request id, access log, recovery, tracing, security
	// headers, CORS, body limit, rate limit, metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log, "/health"))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: telCfg.ServiceName,
		Enabled:     telCfg.Enabled,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	httpMetrics, err := middleware.HTTPMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create HTTP metrics", zap.Error(err))
	}
	engine.Use(httpMetrics)
	if profiler.IsEnabled() {
		engine.Use(middleware.Profiling("/health"))
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAPIMiddleware(
			middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
				Verifier:         auth.NewTokenVerifier(cfg.JWT),
				Required:         cfg.JWT.Required || cfg.App.IsProduction(),
				SkipPathPrefixes: []string{"/api/v1/system/"},
				Logger:           log,
			}),
			middleware.SpanAttributes(),
		),
	)

	var docsGuard gin.HandlerFunc
	if cfg.Swagger.Enabled {
		docsGuard = middleware.SwaggerGuard(cfg.Swagger, log)
	}
	router.Mount(engine, r, router.Handlers{
		Property:    handler.NewPropertyHandler(propertyService, leaseService),
		Tenant:      handler.NewTenantHandler(tenantService),
		Lease:       handler.NewLeaseHandler(leaseService, docService),
		Document:    handler.NewDocumentHandler(docService),
		Transaction: handler.NewTransactionHandler(txService),
		Maintenance: handler.NewMaintenanceHandler(taskService),
		Dashboard:   handler.NewDashboardHandler(leaseService),
		System: handler.NewSystemHandler(
			handler.WithVersion(cfg.App.Name, version),
			handler.WithHealthCheck("database", db.Ping),
		),
	}, docsGuard)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.HTTP.ShutdownTimeout > 0 {
		return cfg.HTTP.ShutdownTimeout
	}
	return 30 * time.Second
}

// newObjectStorage picks the document store. The in-memory store is only for
// local runs and is refused in production.
func newObjectStorage(cfg *config.Config, log *zap.Logger) (documentapp.ObjectStorage, error) {
	switch cfg.Storage.Provider {
	case "memory":
		if cfg.App.IsProduction() {
			return nil, errors.New("memory document storage is not allowed in production")
		}
		log.Warn("Using in-memory document storage; uploads are lost on restart")
		return storage.NewMemoryObjectStorage(), nil
	default:
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignTTL),
		)
		if err != nil {
			return nil, err
		}
		log.Info("Using S3 document storage", zap.String("bucket", s3.GetBucket()))
		return s3, nil
	}
}

type jobDeps struct {
	leaseRepo   *persistence.GormLeaseRepository
	txRepo      *persistence.GormTransactionRepository
	publisher   shared.EventPublisher
	clock       shared.Clock
	store       shared.IdempotencyStore
	leaseMetric *telemetry.LeaseMetrics
}

// startJobs registers the lease sweep and rent charge jobs and starts their
// triggers. The returned func stops triggers before the worker pool.
func startJobs(ctx context.Context, cfg *config.Config, log *zap.Logger, deps jobDeps) (func(), error) {
	ttl := cfg.Event.IdempotencyTTL
	sweeper := leasingapp.NewStatusSweeper(deps.leaseRepo, deps.publisher, deps.clock, log,
		leasingapp.WithIdempotencyStore(deps.store, ttl),
		leasingapp.WithSweepConcurrency(cfg.Scheduler.SweepConcurrency),
		leasingapp.WithSweepObserver(deps.leaseMetric),
	)
	charger := ledgerapp.NewRentCharger(deps.leaseRepo, deps.txRepo, deps.publisher, deps.clock, log,
		ledgerapp.WithChargeIdempotencyStore(deps.store, ttl),
		ledgerapp.WithChargeConcurrency(cfg.Scheduler.SweepConcurrency),
	)

	sched := scheduler.NewScheduler(scheduler.ConfigFrom(cfg.Scheduler), log,
		scheduler.WithJobObserver(deps.leaseMetric.ObserveJob))
	sched.Register(jobLeaseStatusSweep, profiledJob(jobLeaseStatusSweep, func(ctx context.Context) error {
		report, err := sweeper.Run(ctx)
		if err != nil {
			return err
		}
		logger.FromContext(ctx).Info("Lease status sweep finished",
			zap.String("as_of", report.AsOf.String()),
			zap.Int("owners", report.Owners),
			zap.Int("leases", report.Leases),
			zap.Int("changes", report.Changes),
			zap.Int("published", report.Published),
		)
		return nil
	}))
	sched.Register(jobRentCharge, profiledJob(jobRentCharge, func(ctx context.Context) error {
		report, err := charger.Run(ctx)
		if err != nil {
			return err
		}
		deps.leaseMetric.ObserveRentCharges(ctx, report)
		logger.FromContext(ctx).Info("Rent charge run finished",
			zap.String("as_of", report.AsOf.String()),
			zap.Int("due", report.Due),
			zap.Int("created", report.Created),
			zap.Int("skipped", report.Skipped),
		)
		return nil
	}))

	if err := sched.Start(ctx); err != nil {
		return nil, err
	}
	triggers := []*scheduler.IntervalTrigger{
		scheduler.NewIntervalTrigger(jobLeaseStatusSweep, cfg.Scheduler.SweepInterval, true, sched, log),
		scheduler.NewIntervalTrigger(jobRentCharge, cfg.Scheduler.RentChargeInterval, true, sched, log),
	}
	for _, trigger := range triggers {
		if err := trigger.Start(ctx); err != nil {
			_ = sched.Stop(context.Background())
			return nil, err
		}
	}
	log.Info("Scheduler started",
		zap.Duration("sweep_interval", cfg.Scheduler.SweepInterval),
		zap.Duration("rent_charge_interval", cfg.Scheduler.RentChargeInterval),
		zap.Int("workers", cfg.Scheduler.Workers),
	)

	return func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Scheduler.JobTimeout+5*time.Second)
		defer cancel()
		for _, trigger := range triggers {
			if err := trigger.Stop(stopCtx); err != nil {
				log.Warn("Error stopping trigger", zap.Error(err))
			}
		}
		if err := sched.Stop(stopCtx); err != nil {
			log.Error("Error stopping scheduler", zap.Error(err))
		}
	}, nil
}

// profiledJob runs fn with the job name attached to its profile samples
func profiledJob(name string, fn func(ctx context.Context) error) scheduler.JobExecutor {
	return scheduler.ExecutorFunc(func(ctx context.Context, _ *scheduler.Job) error {
		var err error
		telemetry.WithProfilingLabels(ctx, map[string]string{telemetry.ProfilingLabelJob: name}, func(ctx context.Context) {
			err = fn(ctx)
		})
		return err
	})
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

func shutdownTelemetry(log *zap.Logger, providers ...shutdowner) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range providers {
		if err := p.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.Error(err))
		}
	}
}
