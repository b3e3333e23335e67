// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

// TraceIDKey is the gin context key holding the request's trace identifier.
const TraceIDKey = "trace_id"

// ErrorResponse is the standard error envelope for all error responses.
type ErrorResponse struct {
	Error   ErrorDetail `json:"error"`
	TraceID string      `json:"traceId,omitempty"`
}

// ErrorDetail contains the error information.
type ErrorDetail struct {
	// Code is a machine-readable error code (e.g., "NOT_FOUND", "VALIDATION_ERROR").
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details holds field-level messages for validation errors.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes for machine-readable error identification.
const (
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeConflict         = "CONFLICT"
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
	ErrorCodeScopeUnavailable = "REQUEST_SCOPE_UNAVAILABLE"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeBadRequest       = "BAD_REQUEST"
)

// NewErrorResponse creates a new error response with the given code and message.
func NewErrorResponse(code, message string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithDetails creates an error response with additional details.
func NewErrorResponseWithDetails(code, message string, details map[string]string) *ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.Error.Details = details

	return resp
}

// WithTraceID adds a trace ID to the error response.
func (e *ErrorResponse) WithTraceID(traceID string) *ErrorResponse {
	e.TraceID = traceID
	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	case ErrorCodeValidation, ErrorCodeBadRequest:
		return http.StatusBadRequest
	case ErrorCodeUnavailable, ErrorCodeScopeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// MapError maps an application error to an error code and response.
// Unknown errors get a generic message so internals do not leak.
func MapError(err error) *ErrorResponse {
	var validationErr *domain.ValidationError

	switch {
	case scope.IsActivationError(err):
		return NewErrorResponse(ErrorCodeScopeUnavailable, "request scope could not be activated")
	case errors.As(err, &validationErr):
		details := make(map[string]string, len(validationErr.Violations))
		for _, v := range validationErr.Violations {
			details[v.Field] = v.Message
		}

		return NewErrorResponseWithDetails(ErrorCodeValidation, err.Error(), details)
	case domain.IsValidation(err):
		return NewErrorResponse(ErrorCodeValidation, err.Error())
	case domain.IsNotFound(err):
		return NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsConflict(err):
		return NewErrorResponse(ErrorCodeConflict, err.Error())
	case domain.IsUnavailable(err):
		return NewErrorResponse(ErrorCodeUnavailable, "a dependency is temporarily unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		return NewErrorResponse(ErrorCodeTimeout, "request timed out")
	default:
		return NewErrorResponse(ErrorCodeInternal, "an internal error occurred")
	}
}

// HandleError writes the error envelope for err with the request's trace ID.
func HandleError(c *gin.Context, err error) {
	resp, status := respond(c, err)
	c.JSON(status, resp)
}

// AbortWithError aborts the handler chain and writes the error envelope.
func AbortWithError(c *gin.Context, err error) {
	resp, status := respond(c, err)
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithErrorCode aborts the handler chain with a specific error code.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), NewErrorResponse(code, message).WithTraceID(GetTraceID(c)))
}

func respond(c *gin.Context, err error) (*ErrorResponse, int) {
	resp := MapError(err).WithTraceID(GetTraceID(c))
	status := HTTPStatusFromCode(resp.Error.Code)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "request failed",
			"error", err.Error(),
			"status", status,
			"trace_id", resp.TraceID,
		)
	}

	return resp, status
}

// GetTraceID returns the trace identifier for the request: the value stored
// under TraceIDKey, the active span's trace ID, or the X-Request-ID header.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		id, _ := v.(string)
		return id
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.GetHeader("X-Request-ID")
}
