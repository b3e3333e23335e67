// Package middleware provides the gin middleware chain, including the
// request scope binding that runs each request through the guard.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

const (
	// HeaderRequestID identifies a single HTTP exchange.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a business transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// propagatedID describes an identifier read from (or minted for) a request
// header and echoed on the response.
type propagatedID struct {
	header string
	ginKey string
	attach []func(ctx context.Context, id string) context.Context
}

var (
	requestIDs = propagatedID{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		attach: []func(context.Context, string) context.Context{ContextWithRequestID, logging.WithRequestID},
	}

	correlationIDs = propagatedID{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		attach: []func(context.Context, string) context.Context{ContextWithCorrelationID, logging.WithCorrelationID},
	}
)

func (p propagatedID) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(p.header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(p.ginKey, id)
		c.Header(p.header, id)

		ctx := c.Request.Context()
		for _, attach := range p.attach {
			ctx = attach(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequestID reuses an inbound X-Request-ID or mints a UUID, then exposes it
// on the gin context, the request context and the context logger.
func RequestID() gin.HandlerFunc { return requestIDs.handler() }

// CorrelationID propagates the upstream correlation ID, starting one when
// this service is the origin.
func CorrelationID() gin.HandlerFunc { return correlationIDs.handler() }

// GetRequestID returns the request ID, or "" outside the middleware.
func GetRequestID(c *gin.Context) string { return ginString(c, ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID, or "".
func GetCorrelationID(c *gin.Context) string { return ginString(c, ContextKeyCorrelationID) }

// MustGetRequestID is GetRequestID with "unknown" as the fallback.
func MustGetRequestID(c *gin.Context) string { return orUnknown(GetRequestID(c)) }

// MustGetCorrelationID is GetCorrelationID with "unknown" as the fallback.
func MustGetCorrelationID(c *gin.Context) string { return orUnknown(GetCorrelationID(c)) }

func ginString(c *gin.Context, key string) string {
	return c.GetString(key)
}

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}

	return id
}
