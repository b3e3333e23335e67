package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	appctx "github.com/jsamuelsen/reqscope-service/internal/app/context"
	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scoped returns a context bound to a fresh request container.
func scoped(t *testing.T) (context.Context, *appctx.Container) {
	t.Helper()

	c := appctx.NewContainer(context.Background(), discardLogger())
	t.Cleanup(func() { _ = c.Close() })

	return appctx.WithContainer(context.Background(), c), c
}

func newTestGuard(t *testing.T) *scope.Guard {
	t.Helper()

	g, err := scope.New(scope.Config{Resolver: appctx.Resolve, QuietTerminationFailures: true})
	require.NoError(t, err)

	return g
}
