package async

import "context"

// Single is a cold, re-runnable producer of one value or failure.
// Each Await runs the producer again on the caller's goroutine.
type Single[T any] struct {
	run func(ctx context.Context) (T, error)
}

// FromFunc returns a single that calls fn on every Await.
func FromFunc[T any](fn func(ctx context.Context) (T, error)) Single[T] {
	return Single[T]{run: fn}
}

// Just returns a single that always yields v.
func Just[T any](v T) Single[T] {
	return Single[T]{run: func(context.Context) (T, error) { return v, nil }}
}

// FailedSingle returns a single that always fails with err.
func FailedSingle[T any](err error) Single[T] {
	return Single[T]{run: func(context.Context) (T, error) {
		var zero T
		return zero, err
	}}
}

// Defer returns a single that calls factory at subscription time and awaits
// the single it returns. Nothing happens until Await.
func Defer[T any](factory func(ctx context.Context) Single[T]) Single[T] {
	return Single[T]{run: func(ctx context.Context) (T, error) {
		var next Single[T]

		if err := runHook(func() error {
			next = factory(ctx)
			return nil
		}); err != nil {
			var zero T
			return zero, err
		}

		return next.await(ctx)
	}}
}

// Await subscribes to the single and blocks until it yields.
// A ctx that is already done fails fast without running the producer.
// The producer runs on the caller's goroutine and Await does not watch ctx
// while it runs: cancellation ends the subscription, and the hooks attached
// with Eventually, only once the producer honours ctx and returns.
func (s Single[T]) Await(ctx context.Context) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}

	return s.await(ctx)
}

func (s Single[T]) await(ctx context.Context) (v T, err error) {
	if s.run == nil {
		return v, ErrNilHandle
	}

	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, NewPanicError(r)
		}
	}()

	return s.run(ctx)
}

// Eventually returns a single that runs hook exactly once per subscription
// after s yields, fails, or is cancelled through ctx. A hook failure replaces
// a successful value.
func (s Single[T]) Eventually(hook func(err error) error) Single[T] {
	return Single[T]{run: func(ctx context.Context) (v T, err error) {
		defer func() {
			hookErr := runHook(func() error { return hook(err) })
			if err == nil && hookErr != nil {
				var zero T
				v, err = zero, hookErr
			}
		}()

		return s.await(ctx)
	}}
}

// Kind reports KindSingle.
func (s Single[T]) Kind() Kind {
	return KindSingle
}

func (s Single[T]) failedLike(err error) any {
	return FailedSingle[T](err)
}

func (s Single[T]) finallyLike(hook func(error) error) any {
	return s.Eventually(hook)
}

func (s Single[T]) deferLike(factory func(ctx context.Context) any) any {
	return Defer(func(ctx context.Context) Single[T] {
		next, ok := factory(ctx).(Single[T])
		if !ok {
			return FailedSingle[T](ErrShapeMismatch)
		}

		return next
	})
}
