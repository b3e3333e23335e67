package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/reqscope-service/internal/adapters/http/dto"
	appctx "github.com/jsamuelsen/reqscope-service/internal/app/context"
	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

// ContextKeyScopeID is the gin context key for the active request scope ID.
const ContextKeyScopeID = "request_scope_id"

// RequestScope returns middleware that binds a fresh request container to
// the request and runs the rest of the chain as one guarded Direct call.
// Guarded calls made by handlers find the scope already active and leave
// termination to this middleware. The container is closed once the chain
// returns, which also tears down a scope leaked by an asynchronous caller.
func RequestScope(guard *scope.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		logger := logging.FromContext(ctx)

		container := appctx.NewContainer(ctx, logger)
		ctx = appctx.WithContainer(ctx, container)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if err := container.Close(); err != nil {
				logger.WarnContext(ctx, "request container close failed", slog.Any("error", err))
			}
		}()

		_, err := scope.Call(ctx, guard, func(ctx context.Context) (struct{}, error) {
			if rc, err := container.Current(); err == nil {
				c.Set(ContextKeyScopeID, rc.ID())
				ctx = logging.WithScopeID(ctx, rc.ID())
			}

			c.Request = c.Request.WithContext(ctx)

			c.Next()

			return struct{}{}, nil
		})
		if err == nil {
			return
		}

		if c.Writer.Written() {
			logger.WarnContext(ctx, "request scope failed after response was written", slog.Any("error", err))
			return
		}

		dto.AbortWithError(c, err)
	}
}

// GetScopeID returns the ID of the request scope serving c, or "".
func GetScopeID(c *gin.Context) string {
	return ginString(c, ContextKeyScopeID)
}
