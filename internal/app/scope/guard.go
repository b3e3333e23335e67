package scope

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

// Config configures a Guard.
type Config struct {
	// Resolver finds the container for an invocation. Required.
	Resolver ports.ContextResolver

	// Observer receives lifecycle events. Optional.
	Observer Observer

	// Classifier memoizes signature analysis for Bind. Optional.
	Classifier *Classifier

	// QuietTerminationFailures stops the guard from logging termination
	// failures that are not surfaced to the caller.
	QuietTerminationFailures bool
}

// Guard wraps operations with request-scope activation and termination.
type Guard struct {
	resolver   ports.ContextResolver
	observer   Observer
	classifier *Classifier
	quiet      bool
}

// New creates a guard.
func New(cfg Config) (*Guard, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("scope: resolver is required")
	}

	g := &Guard{
		resolver:   cfg.Resolver,
		observer:   cfg.Observer,
		classifier: cfg.Classifier,
		quiet:      cfg.QuietTerminationFailures,
	}

	if g.observer == nil {
		g.observer = noopObserver{}
	}

	if g.classifier == nil {
		c, err := NewClassifier(DefaultClassifierCacheSize)
		if err != nil {
			return nil, err
		}

		g.classifier = c
	}

	return g, nil
}

// lease is the ownership one invocation or subscription holds over the scope
// it activated. A nil lease means the scope was already active.
type lease struct {
	g       *Guard
	ctx     context.Context
	mc      ports.ManagedContext
	shape   Shape
	started time.Time

	once sync.Once
	err  error
}

// acquire activates the scope unless it is already active. On failure the
// operation must not run and nothing is terminated.
func (g *Guard) acquire(ctx context.Context, shape Shape) (*lease, error) {
	var (
		mc     ports.ManagedContext
		active bool
	)

	err := protect(func() error {
		var err error
		if mc, err = g.resolver(ctx); err != nil {
			return err
		}

		if mc == nil {
			return ErrNoContainer
		}

		if active = mc.IsActive(); active {
			return nil
		}

		return mc.Activate()
	})
	if err != nil {
		g.observer.ActivationFailed(shape.String(), err)
		logging.FromContext(ctx).Debug("request scope activation failed",
			slog.String("shape", shape.String()),
			slog.Any("error", err),
		)

		return nil, &ActivationError{Shape: shape, Err: err}
	}

	if active {
		return nil, nil
	}

	g.observer.ScopeActivated(shape.String())
	trace.SpanFromContext(ctx).AddEvent("request_scope.activated",
		trace.WithAttributes(attribute.String("request_scope.shape", shape.String())))
	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "request scope activated",
		slog.String("shape", shape.String()))

	return &lease{g: g, ctx: ctx, mc: mc, shape: shape, started: time.Now()}, nil
}

// release terminates the owned scope once. cause is the outcome of the
// operation. The returned TerminationError is meant to be surfaced only when
// the operation succeeded; otherwise it is logged here. A consumer stopping a
// stream counts as success.
func (l *lease) release(cause error) error {
	if l == nil {
		return nil
	}

	l.once.Do(func() {
		err := protect(l.mc.Terminate)
		lifetime := time.Since(l.started)

		l.g.observer.ScopeTerminated(l.shape.String(), lifetime, err)
		trace.SpanFromContext(l.ctx).AddEvent("request_scope.terminated",
			trace.WithAttributes(
				attribute.String("request_scope.shape", l.shape.String()),
				attribute.Bool("request_scope.failed", err != nil),
			))

		if err == nil {
			logging.FromContext(l.ctx).Log(l.ctx, logging.LevelTrace, "request scope terminated",
				slog.String("shape", l.shape.String()),
				slog.Duration("lifetime", lifetime))

			return
		}

		l.err = &TerminationError{Shape: l.shape, Err: err}

		if cause != nil && !errors.Is(cause, async.ErrStop) && !l.g.quiet {
			logging.FromContext(l.ctx).Warn("request scope termination failed",
				slog.String("shape", l.shape.String()),
				slog.Any("error", err),
				slog.Any("operation_error", cause),
			)
		}
	})

	return l.err
}

// protect runs fn, converting a panic into a *async.PanicError.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = async.NewPanicError(r)
		}
	}()

	return fn()
}

// Call runs proceed as a Direct operation. A termination failure is returned
// only when proceed succeeded. A panic in proceed terminates the owned scope
// and is re-raised.
func Call[T any](ctx context.Context, g *Guard, proceed func(ctx context.Context) (T, error)) (v T, err error) {
	l, err := g.acquire(ctx, ShapeDirect)
	if err != nil {
		return v, err
	}

	panicking := true

	defer func() {
		if panicking {
			r := recover()
			if r == nil {
				// runtime.Goexit
				_ = l.release(errAborted)
				return
			}

			_ = l.release(async.NewPanicError(r))

			panic(r)
		}

		if termErr := l.release(err); err == nil && termErr != nil {
			var zero T
			v, err = zero, termErr
		}
	}()

	v, err = proceed(ctx)
	panicking = false

	return v, err
}
