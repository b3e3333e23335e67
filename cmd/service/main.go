// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/reqscope-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/reqscope-service/internal/adapters/http"
	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/reqscope-service/internal/adapters/repository"
	"github.com/jsamuelsen/reqscope-service/internal/app"
	appctx "github.com/jsamuelsen/reqscope-service/internal/app/context"
	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/platform/config"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
	"github.com/jsamuelsen/reqscope-service/internal/platform/telemetry"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

const healthCheckTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Build the request scope guard
	guard, err := newGuard(cfg)
	if err != nil {
		return err
	}

	// 6. Storage and downstream clients
	repo := repository.NewMemory()

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Hello.BaseURL,
		ServiceName: cfg.Services.Hello.Name,
		Client:      cfg.Client,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	helloClient := acl.NewHelloClient(acl.HelloClientConfig{
		Client: httpClient,
		Path:   cfg.Services.Hello.Path,
		Logger: logger,
	})

	// 7. Health checks
	healthRegistry := ports.NewHealthRegistry(healthCheckTimeout)

	for _, checker := range []ports.HealthChecker{
		helloClient,
		ports.HealthCheckFunc{CheckName: "model-repository", Fn: repo.Ping},
	} {
		if err := healthRegistry.Register(checker); err != nil {
			return fmt.Errorf("registering health check: %w", err)
		}
	}

	// 8. Application services
	modelService := app.NewModelService(app.ModelServiceConfig{
		Repo:   repo,
		Guard:  guard,
		Logger: logger,
	})

	greetingService, err := app.NewGreetingService(app.GreetingServiceConfig{
		Client: helloClient,
		Guard:  guard,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("creating greeting service: %w", err)
	}

	// 9. Handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer)
	modelHandler := handlers.NewModelHandler(modelService)
	clientHandler := handlers.NewClientHandler(greetingService)

	// 10. HTTP server and router
	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(),
		http.NewDefaultRouterConfig(logger, cfg, guard, healthHandler, modelHandler, clientHandler))

	// 11. Start server (non-blocking)
	serverErr, err := server.Start()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newGuard wires the scope guard to the request container resolver, the
// prometheus scope metrics and a bounded signature classifier.
func newGuard(cfg *config.Config) (*scope.Guard, error) {
	metrics, err := telemetry.NewScopeMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return nil, fmt.Errorf("registering scope metrics: %w", err)
	}

	classifier, err := scope.NewClassifier(cfg.Scope.ClassifierCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating classifier: %w", err)
	}

	guard, err := scope.New(scope.Config{
		Resolver:                 appctx.Resolve,
		Observer:                 metrics,
		Classifier:               classifier,
		QuietTerminationFailures: !cfg.Scope.LogTerminationFailures,
	})
	if err != nil {
		return nil, fmt.Errorf("creating scope guard: %w", err)
	}

	return guard, nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
