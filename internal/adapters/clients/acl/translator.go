package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
)

const maxTextBody = 64 << 10

// BaseAdapter provides the request and error-mapping plumbing shared by ACL
// adapters. Embed it in service-specific adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter for the given client.
func NewBaseAdapter(client *clients.Client) BaseAdapter {
	return BaseAdapter{
		client:      client,
		serviceName: client.ServiceName(),
	}
}

// ServiceName returns the name of the downstream service.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET request. On success the caller owns the response and
// must close its body; failures are returned as domain errors.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (*http.Response, error) {
	resp, err := a.client.Get(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp, nil
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	var result T
	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// ReadText reads a bounded plain-text body, trims surrounding whitespace and
// closes it.
func ReadText(body io.ReadCloser) (string, error) {
	if body == nil {
		return "", errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(body, maxTextBody))
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	return strings.TrimSpace(string(raw)), nil
}

// ValidateRequired returns a domain.ValidationError when value is empty.
func ValidateRequired(value, fieldName string) error {
	if value == "" {
		return domain.NewValidationError(fieldName, "is required")
	}

	return nil
}
