package scope

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// Invocation is a guarded call whose result type is known only at runtime.
type Invocation struct {
	// Shape is the classified strategy.
	Shape Shape

	// Result is a zero value of the operation's declared result type. It is
	// required for every shape except Direct.
	Result any

	// Proceed runs the operation. For Single and Stream it is called once per
	// subscription with the subscriber's context.
	Proceed func(ctx context.Context) (any, error)
}

// Intercept runs inv under the strategy its shape selects. For Direct shapes
// it returns the operation's result and error. For async shapes the returned
// value has inv.Result's type and carries every failure itself; the error is
// non-nil only when inv is malformed.
func (g *Guard) Intercept(ctx context.Context, inv Invocation) (any, error) {
	if inv.Proceed == nil {
		return nil, fmt.Errorf("%w: nil proceed", ErrUnsupportedSignature)
	}

	if inv.Shape == ShapeDirect {
		return Call(ctx, g, inv.Proceed)
	}

	if shape, ok := shapeFromKind(async.KindOf(inv.Result)); !ok || shape != inv.Shape || !async.IsHandle(inv.Result) {
		return nil, fmt.Errorf("%w: %T does not match shape %s", ErrUnsupportedSignature, inv.Result, inv.Shape)
	}

	switch inv.Shape {
	case ShapeFuture:
		return g.run(ctx, inv), nil
	case ShapeSingle, ShapeStream:
		return async.DeferLike(inv.Result, func(sctx context.Context) any {
			return g.run(sctx, inv)
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown shape %s", ErrUnsupportedSignature, inv.Shape)
	}
}

// run acquires the scope, proceeds, and attaches the release to the handle.
func (g *Guard) run(ctx context.Context, inv Invocation) any {
	l, err := g.acquire(ctx, inv.Shape)
	if err != nil {
		return async.FailedLike(inv.Result, err)
	}

	h := proceedHandle(ctx, inv)
	if l == nil {
		return h
	}

	return async.FinallyLike(h, l.release)
}

// proceedHandle calls inv.Proceed and folds synchronous failures into a
// failed handle of the declared type.
func proceedHandle(ctx context.Context, inv Invocation) (h any) {
	defer func() {
		if r := recover(); r != nil {
			h = async.FailedLike(inv.Result, async.NewPanicError(r))
		}
	}()

	v, err := inv.Proceed(ctx)

	switch {
	case err != nil:
		return async.FailedLike(inv.Result, err)
	case isNil(v):
		return async.FailedLike(inv.Result, async.ErrNilHandle)
	case reflect.TypeOf(v) != reflect.TypeOf(inv.Result):
		return async.FailedLike(inv.Result, fmt.Errorf("%w: got %T, want %T", async.ErrShapeMismatch, v, inv.Result))
	}

	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// CallFuture guards an eagerly started future. The scope is activated and
// proceed called before CallFuture returns.
func CallFuture[T any](ctx context.Context, g *Guard, proceed func(ctx context.Context) (*async.Future[T], error)) *async.Future[T] {
	h, err := g.Intercept(ctx, Invocation{
		Shape:  ShapeFuture,
		Result: (*async.Future[T])(nil),
		Proceed: func(ctx context.Context) (any, error) {
			return proceed(ctx)
		},
	})
	if err != nil {
		return async.Failed[T](err)
	}

	return h.(*async.Future[T])
}

// CallSingle guards a cold single. proceed runs once per subscription.
func CallSingle[T any](g *Guard, proceed func(ctx context.Context) (async.Single[T], error)) async.Single[T] {
	return async.Defer(func(ctx context.Context) async.Single[T] {
		return g.run(ctx, Invocation{
			Shape:  ShapeSingle,
			Result: async.Single[T]{},
			Proceed: func(ctx context.Context) (any, error) {
				return proceed(ctx)
			},
		}).(async.Single[T])
	})
}

// CallStream guards a cold stream. proceed runs once per subscription.
func CallStream[T any](g *Guard, proceed func(ctx context.Context) (async.Stream[T], error)) async.Stream[T] {
	return async.DeferStream(func(ctx context.Context) async.Stream[T] {
		return g.run(ctx, Invocation{
			Shape:  ShapeStream,
			Result: async.Stream[T]{},
			Proceed: func(ctx context.Context) (any, error) {
				return proceed(ctx)
			},
		}).(async.Stream[T])
	})
}
