package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

// GreetingService fetches greetings from the downstream hello service.
type GreetingService struct {
	hello  func(ctx context.Context) *async.Future[string]
	logger *slog.Logger
}

// GreetingServiceConfig holds the service dependencies.
type GreetingServiceConfig struct {
	Client ports.HelloClient
	Guard  *scope.Guard
	Logger *slog.Logger
}

// NewGreetingService creates a greeting service whose client calls run
// under the request scope guard.
func NewGreetingService(cfg GreetingServiceConfig) (*GreetingService, error) {
	hello, err := scope.Bind(cfg.Guard, cfg.Client.Hello)
	if err != nil {
		return nil, fmt.Errorf("binding hello client: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &GreetingService{
		hello:  hello,
		logger: logger.With(slog.String("component", "app.GreetingService")),
	}, nil
}

// Greet starts the downstream call and returns its future. The request
// scope stays active until the future settles.
func (s *GreetingService) Greet(ctx context.Context) *async.Future[string] {
	logger := logging.FromContextOr(ctx, s.logger)
	start := time.Now()

	return s.hello(ctx).WhenComplete(func(greeting string, err error) error {
		if err != nil {
			logger.ErrorContext(ctx, "greeting failed", slog.Any("error", err))
			return nil
		}

		logger.InfoContext(ctx, "greeting received",
			slog.Int("length", len(greeting)),
			slog.Duration("duration", time.Since(start)))

		return nil
	})
}
