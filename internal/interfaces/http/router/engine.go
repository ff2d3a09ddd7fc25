package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharadhiadiga/Elint/internal/domain/shared"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/config"
	"github.com/sharadhiadiga/Elint/internal/infrastructure/logger"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/handler"
	"github.com/sharadhiadiga/Elint/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig selects the middleware wrapped around the API
type EngineConfig struct {
	ServiceName string
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig

	// Validator enables bearer-token identity; nil trusts X-User-ID
	Validator middleware.TokenValidator

	// IdempotencyStore enables the Idempotency-Key guard when set
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration

	// Meter enables HTTP metrics when set
	Meter     metric.Meter
	Tracing   bool
	Profiling bool

	Logger *zap.Logger
}

// Engine is the gin engine serving the ledger API
type Engine struct {
	*gin.Engine
	limiter *middleware.RateLimiter
}

// Close stops background work started by the middleware
func (e *Engine) Close() {
	if e.limiter != nil {
		e.limiter.Stop()
	}
}

// NewEngine builds the engine: the middleware chain, /health, /swagger and
// the versioned API routes
func NewEngine(cfg EngineConfig, health *handler.HealthHandler, h Handlers) (*Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "elint"
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	e := &Engine{Engine: engine}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(serviceName))
	}
	if cfg.Meter != nil {
		metrics, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(metrics)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if health != nil {
		engine.GET("/health", health.Health)
	}

	var swaggerAuth gin.HandlerFunc
	if cfg.Validator != nil {
		swaggerAuth = middleware.RequireBearer(cfg.Validator)
	}
	engine.GET("/swagger/*any",
		middleware.DocsGuard(cfg.Swagger, swaggerAuth),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)
	if cfg.HTTP.RateLimitEnabled {
		e.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		r.Use(middleware.RateLimit(e.limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	r.Use(middleware.Identity(middleware.IdentityConfig{Validator: cfg.Validator, Logger: log}))
	if cfg.Tracing {
		r.Use(middleware.SpanAttributes())
	}
	if cfg.IdempotencyStore != nil {
		r.Use(middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  cfg.IdempotencyStore,
			TTL:    cfg.IdempotencyTTL,
			Logger: log,
		}))
	}
	if cfg.Profiling {
		r.Use(middleware.Profiling())
	}

	for _, res := range LedgerResources(h) {
		r.Register(res)
	}
	r.Setup()

	return e, nil
}
