package acl

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/clients"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/config"
)

// testConfig returns a single-attempt client config for baseURL.
func testConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "test-service",
		BaseURL:     baseURL,
		Client: config.ClientConfig{
			Timeout: 5 * time.Second,
			Retry: config.RetryConfig{
				MaxAttempts:     1,
				InitialInterval: 10 * time.Millisecond,
				MaxInterval:     100 * time.Millisecond,
			},
			CircuitBreaker: config.CircuitBreakerConfig{
				MaxFailures: 5,
				Timeout:     time.Second,
				HalfOpenMax: 1,
			},
			Transport: config.TransportConfig{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     time.Second,
			},
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *clients.Client {
	t.Helper()

	c, err := clients.New(testConfig(baseURL))
	require.NoError(t, err)

	return c
}

func response(status int, body string) *http.Response {
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body))}
}

func TestMapHTTPError_Status(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{name: "not found", status: http.StatusNotFound, is: domain.ErrNotFound},
		{name: "conflict", status: http.StatusConflict, body: `{"message":"taken"}`, is: domain.ErrConflict},
		{name: "bad request", status: http.StatusBadRequest, is: domain.ErrValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, is: domain.ErrValidation},
		{name: "unauthorized", status: http.StatusUnauthorized, is: domain.ErrUnavailable},
		{name: "forbidden", status: http.StatusForbidden, is: domain.ErrUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, is: domain.ErrUnavailable},
		{name: "server error", status: http.StatusInternalServerError, is: domain.ErrUnavailable},
		{name: "gateway timeout", status: http.StatusGatewayTimeout, is: domain.ErrUnavailable},
		{name: "unknown 4xx", status: http.StatusTeapot, is: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(response(tt.status, tt.body), nil, "hello-service", "hello")
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestMapHTTPError_ConflictUsesBodyMessage(t *testing.T) {
	err := MapHTTPError(response(http.StatusConflict, `{"error":{"message":"already exists"}}`), nil, "svc", "create")

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already exists", conflict.Reason)
}

func TestMapHTTPError_ValidationDetails(t *testing.T) {
	body := `{"error":{"code":"VALIDATION_ERROR","message":"bad","details":{"name":"required","age":"too low"}}}`

	err := MapHTTPError(response(http.StatusBadRequest, body), nil, "svc", "create")

	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, []domain.FieldViolation{
		{Field: "age", Message: "too low"},
		{Field: "name", Message: "required"},
	}, validation.Violations)
}

func TestMapHTTPError_ClientErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{name: "circuit open", err: clients.ErrCircuitOpen, contains: "circuit breaker open during hello"},
		{name: "retries", err: clients.ErrMaxRetriesExceeded, contains: "max retries exceeded during hello"},
		{name: "other", err: assert.AnError, contains: "hello failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(nil, tt.err, "hello-service", "hello")
			require.ErrorIs(t, err, domain.ErrUnavailable)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMapHTTPError_SuccessAndNil(t *testing.T) {
	assert.NoError(t, MapHTTPError(response(http.StatusOK, ""), nil, "svc", "op"))
	assert.ErrorIs(t, MapHTTPError(nil, nil, "svc", "op"), domain.ErrUnavailable)
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		body        io.Reader
		wantNil     bool
		wantCode    string
		wantMessage string
	}{
		{name: "nested", body: strings.NewReader(`{"error":{"code":"NOT_FOUND","message":"not found"}}`), wantCode: "NOT_FOUND", wantMessage: "not found"},
		{name: "flat", body: strings.NewReader(`{"code":"CONFLICT","message":"already exists"}`), wantCode: "CONFLICT", wantMessage: "already exists"},
		{name: "invalid json", body: strings.NewReader(`not json`), wantNil: true},
		{name: "empty object", body: strings.NewReader(`{}`), wantNil: true},
		{name: "nil", body: nil, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseErrorResponse(tt.body)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.GetCode())
			assert.Equal(t, tt.wantMessage, got.GetMessage())
		})
	}
}

func TestDecodeResponse(t *testing.T) {
	type payload struct {
		Message string `json:"message"`
	}

	got, err := DecodeResponse[payload](io.NopCloser(strings.NewReader(`{"message":"hi"}`)))
	require.NoError(t, err)
	assert.Equal(t, "hi", got.Message)

	_, err = DecodeResponse[payload](io.NopCloser(strings.NewReader(`{`)))
	require.Error(t, err)

	_, err = DecodeResponse[payload](nil)
	require.Error(t, err)
}

func TestReadText(t *testing.T) {
	got, err := ReadText(io.NopCloser(strings.NewReader("  hello world \n")))
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)

	_, err = ReadText(nil)
	require.Error(t, err)
}

func TestValidateRequired(t *testing.T) {
	require.NoError(t, ValidateRequired("x", "field"))
	assert.ErrorIs(t, ValidateRequired("", "field"), domain.ErrValidation)
}

func TestBaseAdapter_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			_, _ = io.WriteString(w, "fine")
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := NewBaseAdapter(newTestClient(t, server.URL))
	assert.Equal(t, "test-service", adapter.ServiceName())

	resp, err := adapter.Get(context.Background(), "/ok", "fetch")
	require.NoError(t, err)

	text, err := ReadText(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "fine", text)

	_, err = adapter.Get(context.Background(), "/nope", "fetch")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBaseAdapter_GetPassesCancellationThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	adapter := NewBaseAdapter(newTestClient(t, server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Get(ctx, "/ok", "fetch")
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrUnavailable)
}
