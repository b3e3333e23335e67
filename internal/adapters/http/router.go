package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/platform/config"
	"github.com/jsamuelsen/reqscope-service/internal/platform/telemetry"
)

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	// Guard hosts the request scope of every non-probe route. Required
	// when any business handler is set.
	Guard *scope.Guard

	HealthHandler *handlers.HealthHandler
	ModelHandler  *handlers.ModelHandler
	ClientHandler *handlers.ClientHandler

	// Timeout is the per-request deadline. Zero disables it.
	Timeout time.Duration

	// TimeoutSkipRoutes lists route patterns that run without a deadline.
	TimeoutSkipRoutes []string
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and HTTP metrics
//  5. Logging (skips /-/ paths)
//
// Business routes additionally run inside a request scope, then under the
// request timeout:
//   - POST /modelwithbuilder
//   - /api/v1/models...
//   - GET /ft/client
//
// Probe routes under /-/ run outside any request scope.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.AppConfig.Name)...)
	engine.Use(middleware.Logging(cfg.Logger))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	if cfg.ModelHandler == nil && cfg.ClientHandler == nil {
		return
	}

	scoped := engine.Group("",
		middleware.RequestScope(cfg.Guard),
		middleware.Timeout(cfg.Timeout, cfg.TimeoutSkipRoutes...),
	)

	if cfg.ModelHandler != nil {
		cfg.ModelHandler.RegisterEchoRoute(scoped)
		cfg.ModelHandler.RegisterModelRoutes(scoped.Group("/api/v1"))
	}

	if cfg.ClientHandler != nil {
		cfg.ClientHandler.RegisterClientRoutes(scoped)
	}
}

// SetupMinimalRouter sets up a router with just the probe endpoints.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewDefaultRouterConfig creates a RouterConfig from the loaded configuration.
// The stream route is exempt from the request timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	guard *scope.Guard,
	healthHandler *handlers.HealthHandler,
	modelHandler *handlers.ModelHandler,
	clientHandler *handlers.ClientHandler,
) RouterConfig {
	return RouterConfig{
		Logger:            logger,
		AppConfig:         &cfg.App,
		Guard:             guard,
		HealthHandler:     healthHandler,
		ModelHandler:      modelHandler,
		ClientHandler:     clientHandler,
		Timeout:           cfg.Server.RequestTimeout,
		TimeoutSkipRoutes: []string{"/api/v1/models/stream"},
	}
}
