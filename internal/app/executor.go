package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
)

// Writes run as Validate → Perform → Verify → Archive → Respond. State is
// archived only after the performed result has been verified, so a failing
// dependency never leaves half-written state behind.

// ExecutionStep names a step of an Operation.
type ExecutionStep string

// Operation steps in execution order.
const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// ExecutionError records the step an operation failed in.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Step, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s failed: %s", e.Step, e.Message)
}

// Unwrap returns the cause so domain errors stay matchable.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Executor runs Operations with per-step logging and span events.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger falls back to slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{logger: logger}
}

// Operation is a write split into its five steps. Nil steps are skipped
// and pass the zero value on.
type Operation[I, P, V, O any] struct {
	Name string

	// Validate checks input before anything is touched.
	Validate func(ctx context.Context, input I) error

	// Perform does the work, typically reading current state.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify checks what Perform produced and derives the state to archive.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified state.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond shapes the result for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)
}

var stepMessages = map[ExecutionStep]string{
	StepValidate: "input validation failed",
	StepPerform:  "operation failed",
	StepVerify:   "verification failed",
	StepArchive:  "state persistence failed",
	StepRespond:  "response failed",
}

// Execute runs op against input.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var zero O

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))
	start := time.Now()

	if _, err := runStep(ctx, logger, StepValidate, op.Validate != nil, func() (struct{}, error) {
		return struct{}{}, op.Validate(ctx, input)
	}); err != nil {
		return zero, err
	}

	performed, err := runStep(ctx, logger, StepPerform, op.Perform != nil, func() (P, error) {
		return op.Perform(ctx, input)
	})
	if err != nil {
		return zero, err
	}

	verified, err := runStep(ctx, logger, StepVerify, op.Verify != nil, func() (V, error) {
		return op.Verify(ctx, input, performed)
	})
	if err != nil {
		return zero, err
	}

	if _, err := runStep(ctx, logger, StepArchive, op.Archive != nil, func() (struct{}, error) {
		return struct{}{}, op.Archive(ctx, input, verified)
	}); err != nil {
		return zero, err
	}

	result, err := runStep(ctx, logger, StepRespond, op.Respond != nil, func() (O, error) {
		return op.Respond(ctx, input, verified)
	})
	if err != nil {
		return zero, err
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return result, nil
}

func runStep[T any](ctx context.Context, logger *slog.Logger, step ExecutionStep, present bool, fn func() (T, error)) (T, error) {
	var zero T

	if !present {
		return zero, nil
	}

	logger.DebugContext(ctx, "running step", slog.String("step", string(step)))

	v, err := fn()
	if err != nil {
		level := slog.LevelError
		if step == StepValidate || step == StepRespond {
			level = slog.LevelWarn
		}

		logger.Log(ctx, level, "step failed", slog.String("step", string(step)), slog.Any("error", err))
		trace.SpanFromContext(ctx).AddEvent("operation.step_failed",
			trace.WithAttributes(attribute.String("operation.step", string(step))))

		return zero, &ExecutionError{Step: step, Message: stepMessages[step], Cause: err}
	}

	return v, nil
}

// IsExecutionError reports whether err came from an Operation step.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep returns the step err failed in.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
