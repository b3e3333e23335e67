package ports

import "context"

// ManagedContext is the request-scope container the lifecycle guard drives.
// Implementations must tolerate IsActive and Terminate being called from the
// goroutine that completes an asynchronous result.
type ManagedContext interface {
	// IsActive reports whether a request scope is bound right now.
	IsActive() bool

	// Activate binds a fresh request scope. It fails when a scope is already
	// bound or the container can no longer host one.
	Activate() error

	// Terminate tears down the bound scope and releases its resources.
	// Calling it with no scope bound is a no-op.
	Terminate() error
}

// ContextResolver looks up the container that serves the invocation carried by ctx.
type ContextResolver func(ctx context.Context) (ManagedContext, error)
