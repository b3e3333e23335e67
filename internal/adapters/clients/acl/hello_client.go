package acl

import (
	"context"
	"fmt"
	"log/slog"
	"mime"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

// HelloClientConfig configures the hello service adapter.
type HelloClientConfig struct {
	// Client is the HTTP client; its base URL points at the hello service.
	Client *clients.Client

	// Path is the greeting endpoint, e.g. "/hello".
	Path string

	// Logger is optional.
	Logger *slog.Logger
}

// HelloClient implements ports.HelloClient and ports.HealthChecker for the
// downstream hello service.
type HelloClient struct {
	BaseAdapter

	path   string
	logger *slog.Logger
}

// helloResponse is the JSON form of a greeting. Plain-text bodies are
// accepted as well.
type helloResponse struct {
	Message string `json:"message"`
}

// NewHelloClient creates the adapter. Panics if Client is nil.
func NewHelloClient(cfg HelloClientConfig) *HelloClient {
	if cfg.Client == nil {
		panic("HelloClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.Path
	if path == "" {
		path = "/hello"
	}

	return &HelloClient{
		BaseAdapter: NewBaseAdapter(cfg.Client),
		path:        path,
		logger:      logger.With(slog.String("component", "acl.HelloClient")),
	}
}

// Hello starts the greeting call on its own goroutine.
func (c *HelloClient) Hello(ctx context.Context) *async.Future[string] {
	return async.Go(ctx, c.fetch)
}

func (c *HelloClient) fetch(ctx context.Context) (string, error) {
	logger := logging.FromContextOr(ctx, c.logger)
	logger.Log(ctx, logging.LevelTrace, "fetching greeting", slog.String("path", c.path))

	resp, err := c.Get(ctx, c.path, "hello")
	if err != nil {
		return "", err
	}

	var greeting string

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		decoded, decodeErr := DecodeResponse[helloResponse](resp.Body)
		if decodeErr != nil {
			return "", domain.NewUnavailableError(c.ServiceName(), decodeErr.Error())
		}

		greeting = decoded.Message
	} else {
		greeting, err = ReadText(resp.Body)
		if err != nil {
			return "", domain.NewUnavailableError(c.ServiceName(), err.Error())
		}
	}

	if err := ValidateRequired(greeting, "greeting"); err != nil {
		return "", domain.NewUnavailableError(c.ServiceName(), fmt.Sprintf("invalid response: %v", err))
	}

	return greeting, nil
}

// Name implements ports.HealthChecker.
func (c *HelloClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker by fetching a greeting.
func (c *HelloClient) Check(ctx context.Context) error {
	_, err := c.fetch(ctx)
	return err
}
