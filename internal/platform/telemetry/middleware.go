package telemetry

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader carries the active trace ID back to the caller.
const TraceIDHeader = "X-Trace-ID"

// HTTPMetrics holds the server-side instruments recorded per request.
type HTTPMetrics struct {
	duration metric.Float64Histogram
	served   metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewHTTPMetrics registers the instruments on the global meter provider.
func NewHTTPMetrics() (*HTTPMetrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m           HTTPMetrics
		errDuration error
		errServed   error
		errInflight error
	)

	m.duration, errDuration = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s"))
	m.served, errServed = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"))
	m.inflight, errInflight = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"))

	if err := errors.Join(errDuration, errServed, errInflight); err != nil {
		return nil, err
	}

	return &m, nil
}

// Middleware returns the otelgin tracing middleware followed by HTTP server
// metrics and the X-Trace-ID response header.
func Middleware(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{otelgin.Middleware(serviceName), metricsMiddleware()}
}

func metricsMiddleware() gin.HandlerFunc {
	metrics, err := NewHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		route := attribute.String("http.route", c.FullPath())
		method := attribute.String("http.method", c.Request.Method)

		if metrics != nil {
			live := metric.WithAttributes(method, route)
			metrics.inflight.Add(ctx, 1, live)
			defer metrics.inflight.Add(ctx, -1, live)
		}

		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			c.Header(TraceIDHeader, sc.TraceID().String())
		}

		c.Next()

		if metrics == nil {
			return
		}

		attrs := metric.WithAttributes(method, route, attribute.Int("http.status_code", c.Writer.Status()))
		metrics.duration.Record(ctx, time.Since(start).Seconds(), attrs)
		metrics.served.Add(ctx, 1, attrs)
	}
}
