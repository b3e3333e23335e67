package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticCheck(name string, err error) HealthCheckFunc {
	return HealthCheckFunc{CheckName: name, Fn: func(context.Context) error { return err }}
}

func slowCheck(name string, d time.Duration) HealthCheckFunc {
	return HealthCheckFunc{CheckName: name, Fn: func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}}
}

func TestRegister_DuplicateName(t *testing.T) {
	registry := NewHealthRegistry(0)

	require.NoError(t, registry.Register(staticCheck("request-scope", nil)))

	err := registry.Register(staticCheck("request-scope", nil))

	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "request-scope")
	assert.Len(t, registry.checkers, 1)
}

func TestCheckAll(t *testing.T) {
	tests := []struct {
		name         string
		checkers     []HealthChecker
		wantStatus   HealthStatus
		wantMessages map[string]string
	}{
		{
			name:       "no checkers is healthy",
			wantStatus: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			checkers: []HealthChecker{
				staticCheck("request-scope", nil),
				staticCheck("hello-service", nil),
			},
			wantStatus:   HealthStatusHealthy,
			wantMessages: map[string]string{"request-scope": "", "hello-service": ""},
		},
		{
			name: "one unhealthy",
			checkers: []HealthChecker{
				staticCheck("request-scope", nil),
				staticCheck("hello-service", errors.New("circuit open")),
			},
			wantStatus:   HealthStatusUnhealthy,
			wantMessages: map[string]string{"request-scope": "", "hello-service": "circuit open"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := NewHealthRegistry(0)
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			require.NotNil(t, result)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.False(t, result.Timestamp.IsZero())
			assert.Len(t, result.Checks, len(tt.checkers))

			for name, msg := range tt.wantMessages {
				require.Contains(t, result.Checks, name)
				assert.Equal(t, msg, result.Checks[name].Message)
			}
		})
	}
}

func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry(0)
	require.NoError(t, registry.Register(slowCheck("slow-service", 100*time.Millisecond)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "context canceled")
}

func TestCheckAll_PerCheckTimeout(t *testing.T) {
	registry := NewHealthRegistry(10 * time.Millisecond)
	require.NoError(t, registry.Register(slowCheck("slow-service", time.Second)))
	require.NoError(t, registry.Register(staticCheck("fast-service", nil)))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, HealthStatusHealthy, result.Checks["fast-service"].Status)
	assert.Contains(t, result.Checks["slow-service"].Message, "deadline exceeded")
}
