// Package async provides the deferred result types used by guarded operations.
//
// Three shapes are supported:
//
//   - Future: eager. Work starts when the future is created and listeners run
//     on the goroutine that completes it.
//   - Single: cold. Nothing runs until Await is called, and every Await runs
//     the upstream again on the caller's goroutine.
//   - Stream: cold. Subscribe pushes values to a consumer on the caller's
//     goroutine until the producer completes, fails, or the consumer stops.
//
// Cancellation is cooperative and always travels through context.Context.
// A stream consumer can also stop early by returning ErrStop from its
// callback or by breaking out of a range over Stream.All.
//
// # Lifecycle hooks
//
// Each shape exposes a finalizer that runs exactly once when the result
// terminates, whatever the outcome:
//
//	f = f.WhenComplete(func(v T, err error) error { return release() })
//	s = s.Eventually(func(err error) error { return release() })
//	st = st.OnTermination(func(err error) error { return release() })
//
// A hook failure replaces a successful outcome but never masks an upstream
// failure.
//
// # Erased helpers
//
// Hosts that only know a result's declared type through reflection can use
// KindOf, FailedLike, FinallyLike and DeferLike to build failed, finalized or
// deferred values of the same concrete type without naming the element type.
package async
