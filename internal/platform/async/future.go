package async

import (
	"context"
	"sync"
)

// Future is a single value or failure produced eagerly.
// The zero value is not usable; create futures with Go, Completed, Failed or
// NewPromise.
type Future[T any] struct {
	mu        sync.Mutex
	done      chan struct{}
	value     T
	err       error
	listeners []func(T, error)
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Promise is the write side of a Future.
type Promise[T any] struct {
	future *Future[T]
}

// NewPromise returns a promise and the future it completes.
func NewPromise[T any]() (*Promise[T], *Future[T]) {
	f := newFuture[T]()

	return &Promise[T]{future: f}, f
}

// Complete settles the future. Only the first call has an effect; it reports
// whether this call settled the future.
func (p *Promise[T]) Complete(v T, err error) bool {
	return p.future.complete(v, err)
}

// Resolve settles the future with a value.
func (p *Promise[T]) Resolve(v T) bool {
	return p.future.complete(v, nil)
}

// Reject settles the future with a failure.
func (p *Promise[T]) Reject(err error) bool {
	var zero T

	return p.future.complete(zero, err)
}

// Go runs fn on a new goroutine and returns a future for its result.
// A panic in fn fails the future with a *PanicError.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	p, f := NewPromise[T]()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.Reject(NewPanicError(r))
			}
		}()

		p.Complete(fn(ctx))
	}()

	return f
}

// Completed returns a future that already holds v.
func Completed[T any](v T) *Future[T] {
	f := newFuture[T]()
	f.complete(v, nil)

	return f
}

// Failed returns a future that already holds err.
func Failed[T any](err error) *Future[T] {
	var zero T

	f := newFuture[T]()
	f.complete(zero, err)

	return f
}

func (f *Future[T]) complete(v T, err error) bool {
	f.mu.Lock()

	select {
	case <-f.done:
		f.mu.Unlock()
		return false
	default:
	}

	f.value, f.err = v, err
	listeners := f.listeners
	f.listeners = nil
	close(f.done)
	f.mu.Unlock()

	for _, l := range listeners {
		l(v, err)
	}

	return true
}

// onComplete registers fn to run once the future settles. If it has already
// settled, fn runs immediately on the calling goroutine.
func (f *Future[T]) onComplete(fn func(T, error)) {
	f.mu.Lock()

	select {
	case <-f.done:
		v, err := f.value, f.err
		f.mu.Unlock()
		fn(v, err)

		return
	default:
	}

	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Done is closed once the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
// Cancelling ctx stops the wait, not the work behind the future.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f == nil {
		var zero T
		return zero, ErrNilHandle
	}

	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WhenComplete returns a future that settles after hook has run on the
// outcome of f. The hook runs exactly once. If f succeeded and the hook
// fails, the returned future fails with the hook's error; if f failed, its
// failure is kept.
func (f *Future[T]) WhenComplete(hook func(v T, err error) error) *Future[T] {
	if f == nil {
		f = Failed[T](ErrNilHandle)
	}

	p, next := NewPromise[T]()

	f.onComplete(func(v T, err error) {
		hookErr := runHook(func() error { return hook(v, err) })
		if err == nil && hookErr != nil {
			p.Reject(hookErr)
			return
		}

		p.Complete(v, err)
	})

	return next
}

// Kind reports KindFuture. It is safe to call on a nil *Future.
func (f *Future[T]) Kind() Kind {
	return KindFuture
}

func (f *Future[T]) failedLike(err error) any {
	return Failed[T](err)
}

func (f *Future[T]) finallyLike(hook func(error) error) any {
	return f.WhenComplete(func(_ T, err error) error {
		return hook(err)
	})
}

// runHook calls fn and converts a panic into a *PanicError.
func runHook(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()

	return fn()
}
