package async

import (
	"context"
	"errors"
	"iter"
)

// Emit delivers one value to a stream consumer. A non-nil return means the
// subscription is over; producers must stop and return that error.
type Emit[T any] func(v T) error

// Stream is a cold sequence of values. Each Subscribe runs the producer
// again on the caller's goroutine.
type Stream[T any] struct {
	produce func(ctx context.Context, emit Emit[T]) error
}

// Generate returns a stream backed by produce.
func Generate[T any](produce func(ctx context.Context, emit Emit[T]) error) Stream[T] {
	return Stream[T]{produce: produce}
}

// Of returns a stream of the given values.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// FromSlice returns a stream over values.
func FromSlice[T any](values []T) Stream[T] {
	return Stream[T]{produce: func(_ context.Context, emit Emit[T]) error {
		for _, v := range values {
			if err := emit(v); err != nil {
				return err
			}
		}

		return nil
	}}
}

// FailedStream returns a stream that fails with err without emitting.
func FailedStream[T any](err error) Stream[T] {
	return Stream[T]{produce: func(context.Context, Emit[T]) error { return err }}
}

// DeferStream returns a stream that calls factory at subscription time and
// subscribes to the stream it returns.
func DeferStream[T any](factory func(ctx context.Context) Stream[T]) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, emit Emit[T]) error {
		var next Stream[T]

		if err := runHook(func() error {
			next = factory(ctx)
			return nil
		}); err != nil {
			return err
		}

		return next.run(ctx, emit)
	}}
}

// Subscribe runs the stream, calling onNext for each value. It returns nil on
// normal completion or when the consumer stopped with ErrStop, the
// producer's failure otherwise, or ctx.Err() once ctx is done.
// Subscribe does not watch ctx itself: cancellation is noticed at the next
// emit, so a producer that blocks without honouring ctx delays termination
// until it returns.
// A panic in onNext ends the subscription and is re-raised after the
// producer has returned.
func (s Stream[T]) Subscribe(ctx context.Context, onNext func(v T) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		stopped       error
		consumerPanic *PanicError
	)

	err := s.run(ctx, func(v T) error {
		if stopped != nil {
			return stopped
		}

		if err := ctx.Err(); err != nil {
			stopped = err
			return err
		}

		if err := deliver(onNext, v, &consumerPanic); err != nil {
			stopped = err
			return err
		}

		return nil
	})
	if consumerPanic != nil {
		panic(consumerPanic.Value)
	}

	if errors.Is(err, ErrStop) {
		return nil
	}

	return err
}

func deliver[T any](onNext func(T) error, v T, caught **PanicError) (err error) {
	defer func() {
		if r := recover(); r != nil {
			*caught = NewPanicError(r)
			err = ErrStop
		}
	}()

	return onNext(v)
}

func (s Stream[T]) run(ctx context.Context, emit Emit[T]) (err error) {
	if s.produce == nil {
		return ErrNilHandle
	}

	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()

	return s.produce(ctx, emit)
}

// All adapts the stream to a range-over-func iterator. Breaking out of the
// loop cancels the subscription. A failure is yielded once as the last pair
// unless the loop already broke.
func (s Stream[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		broke := false

		err := s.Subscribe(ctx, func(v T) error {
			if !yield(v, nil) {
				broke = true
				return ErrStop
			}

			return nil
		})
		if err != nil && !broke {
			var zero T
			yield(zero, err)
		}
	}
}

// Collect subscribes and gathers every value.
func (s Stream[T]) Collect(ctx context.Context) ([]T, error) {
	var out []T

	err := s.Subscribe(ctx, func(v T) error {
		out = append(out, v)
		return nil
	})

	return out, err
}

// OnTermination returns a stream that runs hook exactly once per
// subscription when s terminates: completion (nil), failure, consumer stop
// (ErrStop) or cancellation (ctx error). A hook failure is reported when the
// stream completed normally or the consumer stopped it.
func (s Stream[T]) OnTermination(hook func(cause error) error) Stream[T] {
	return Stream[T]{produce: func(ctx context.Context, emit Emit[T]) (err error) {
		defer func() {
			hookErr := runHook(func() error { return hook(err) })
			if hookErr != nil && (err == nil || errors.Is(err, ErrStop)) {
				err = hookErr
			}
		}()

		return s.run(ctx, emit)
	}}
}

// Kind reports KindStream.
func (s Stream[T]) Kind() Kind {
	return KindStream
}

func (s Stream[T]) failedLike(err error) any {
	return FailedStream[T](err)
}

func (s Stream[T]) finallyLike(hook func(error) error) any {
	return s.OnTermination(hook)
}

func (s Stream[T]) deferLike(factory func(ctx context.Context) any) any {
	return DeferStream(func(ctx context.Context) Stream[T] {
		next, ok := factory(ctx).(Stream[T])
		if !ok {
			return FailedStream[T](ErrShapeMismatch)
		}

		return next
	})
}
