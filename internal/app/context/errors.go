package context

import "errors"

var (
	// ErrAlreadyCommitted is returned when adding actions or committing after
	// the request context has already been committed.
	ErrAlreadyCommitted = errors.New("request context already committed")

	// ErrDestroyed is returned when registering work on a request context
	// that has already been torn down.
	ErrDestroyed = errors.New("request context destroyed")

	// ErrNotActive is returned by Container.Current when no scope is bound.
	ErrNotActive = errors.New("request scope not active")

	// ErrAlreadyActive is returned by Container.Activate when a scope is bound.
	ErrAlreadyActive = errors.New("request scope already active")

	// ErrContainerClosed is returned by Container.Activate after Close.
	ErrContainerClosed = errors.New("request container closed")

	// ErrNoContainer is returned by Resolve when ctx carries no container.
	ErrNoContainer = errors.New("no request container bound to context")
)
