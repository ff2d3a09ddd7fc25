package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/application/coordinator"
	appevent "github.com/sharadhiadiga/Elint/internal/application/event"
	"github.com/sharadhiadiga/Elint/internal/application/ledger"
	"github.com/sharadhiadiga/Elint/internal/application/masterdata"
	"github.com/sharadhiadiga/Elint/internal/application/reconcile"
	"github.com/sharadhiadiga/Elint/internal/application/workflow"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/domain/trade"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/auth"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/cache"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/event"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/persistence"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/scheduler"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/storage"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/telemetry"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/handler"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/middleware"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/sharadhiadiga/Elint/docs"
)

//	@title			Elint API
//	@version		1.0
//	@description	Ledger and order workflow service for small businesses

//	@contact.name	API Support
//	@contact.url	https://github.com/sharadhiadiga/Elint

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log bridge needs a logger of its own, so the real logger is
	// built once it exists.
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log, err := logger.New(logCfg, logProvider.Core(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Elint",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.Telemetry.ServiceName, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	meter := meterProvider.Meter(telemetry.MeterName)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), telemetry.DefaultSlowQueryThreshold)
	db, err := persistence.Open(ctx, &cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tracerProvider.IsEnabled() && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingOptions{DBSystem: "postgresql"}, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		if _, err := telemetry.RegisterPoolMetrics(meter, db.SQL()); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}

	repos := persistence.NewRepositories(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Events are delivered after commit; handlers never affect the unit of work.
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(appevent.NewAuditHandler(log))
	eventBus.Subscribe(appevent.NewLowStockHandler(repos.Items(), log))

	ledgerMetrics, err := telemetry.NewLedgerMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create ledger metrics", zap.Error(err))
	}
	eventBus.Subscribe(ledgerMetrics)

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	coord := coordinator.New(scope, eventBus, log)
	workflowEngine := workflow.NewEngine(repos.Orders(), log)
	queries := ledger.NewQueryService(repos, repos.Transactions())
	itemService := masterdata.NewItemService(repos.Items(), scope, eventBus, log)
	partyService := masterdata.NewPartyService(repos.Parties(), scope, eventBus, log)
	reconciler := reconcile.NewService(persistence.NewGormLedgerReader(db.DB), log).WithRecorder(ledgerMetrics)

	schedCfg, err := scheduler.ConfigFromSettings(cfg.Reconcile)
	if err != nil {
		log.Fatal("Invalid reconcile schedule", zap.Error(err))
	}
	reconcileScheduler := scheduler.NewReconcileScheduler(schedCfg, reconciler, scheduler.NewRunRepository(db.DB), log)
	reportArchive, err := storage.OpenReportArchive(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to open report storage", zap.Error(err))
	}
	if reportArchive != nil {
		reconcileScheduler.WithArchive(reportArchive)
	}
	if err := reconcileScheduler.Start(ctx); err != nil {
		log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
	}

	var validator middleware.TokenValidator
	if cfg.JWT.Enabled {
		validator = auth.NewTokenValidator(cfg.JWT)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engineCfg := router.EngineConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		HTTP:        cfg.HTTP,
		Swagger:     cfg.Swagger,
		Validator:   validator,
		Tracing:     tracerProvider.IsEnabled(),
		Profiling:   profiler.IsEnabled(),
		Logger:      log,
	}
	var idempotencyStore shared.IdempotencyStore
	if cfg.Idempotency.Enabled {
		// Outside production a Redis outage falls back to the in-memory store
		idempotencyStore, err = cache.NewIdempotencyStore(ctx, cfg.Idempotency, cfg.Redis, cfg.App.Env != "production", log)
		if err != nil {
			log.Fatal("Failed to initialize idempotency store", zap.Error(err))
		}
		engineCfg.IdempotencyStore = idempotencyStore
		engineCfg.IdempotencyTTL = cfg.Idempotency.TTL
	}
	if meterProvider.IsEnabled() {
		engineCfg.Meter = meter
	}

	engine, err := router.NewEngine(engineCfg, handler.NewHealthHandler(db, log), router.Handlers{
		Items:          handler.NewItemHandler(itemService),
		Parties:        handler.NewPartyHandler(partyService),
		Sales:          handler.NewDocumentHandler(trade.KindSale, coord, queries),
		Purchases:      handler.NewDocumentHandler(trade.KindPurchase, coord, queries),
		Orders:         handler.NewOrderHandler(coord, workflowEngine),
		Transactions:   handler.NewTransactionHandler(coord, queries),
		Reconciliation: handler.NewReconciliationHandler(reconciler),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	defer engine.Close()

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := reconcileScheduler.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping reconcile scheduler", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if closer, ok := idempotencyStore.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}
	if err := errors.Join(
		meterProvider.Shutdown(shutdownCtx),
		tracerProvider.Shutdown(shutdownCtx),
		logProvider.Shutdown(shutdownCtx),
	); err != nil {
		log.Error("Error flushing telemetry", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
