// Package scope guards operations with the request-scope lifecycle.
//
// A guarded operation makes sure a request scope is active while it runs.
// If the container bound to the invocation's context already has an active
// scope, the operation simply runs inside it. Otherwise the invocation
// activates one, becomes its owner, and terminates it exactly once when the
// operation's result has settled, on every exit path.
//
// How "settled" is detected depends on the operation's result shape:
//
//   - Direct: a plain (T, error) return. The scope ends when the call returns
//     or panics.
//   - Future: an *async.Future. Activation and the call happen immediately;
//     the scope ends when the future completes.
//   - Single and Stream: cold async.Single and async.Stream values. Nothing
//     happens until subscription; every subscription activates (or joins) a
//     scope of its own and ends it when that subscription terminates,
//     including cancellation through the subscriber's context.
//
// Failures are delivered through the shape's own channel. An operation that
// returns a Future never returns an error alongside it; a failed activation,
// an error return or a panic in the operation all become a failed Future.
//
// The guard starts no goroutines. Future finalizers run on the goroutine that
// completes the future; Single and Stream finalizers run on the subscriber's.
package scope
