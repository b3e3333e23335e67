package context

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

type containerKey struct{}

var _ ports.ManagedContext = (*Container)(nil)

// Container hosts at most one active RequestContext at a time. One container
// is bound per inbound request; every guarded call made while serving that
// request resolves the same container from its context.
type Container struct {
	mu      sync.Mutex
	base    context.Context
	logger  *slog.Logger
	current *RequestContext
	closed  bool
}

// NewContainer creates a container whose scopes are bound to base. Once base
// is done no new scope can be activated.
func NewContainer(base context.Context, logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.Default()
	}

	return &Container{base: base, logger: logger}
}

// IsActive reports whether a scope is bound.
func (c *Container) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current != nil
}

// Activate binds a fresh RequestContext.
func (c *Container) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrContainerClosed
	case c.current != nil:
		return fmt.Errorf("%w: scope %s", ErrAlreadyActive, c.current.ID())
	}

	if err := c.base.Err(); err != nil {
		return fmt.Errorf("request ended: %w", err)
	}

	c.current = New(c.base)

	return nil
}

// Terminate tears down the bound scope. It is a no-op when nothing is bound.
// The scope is unbound even when a destroy callback fails.
func (c *Container) Terminate() error {
	c.mu.Lock()
	rc := c.current
	c.current = nil
	c.mu.Unlock()

	if rc == nil {
		return nil
	}

	discarded, err := rc.teardown()
	if discarded > 0 {
		c.logger.Warn("discarding uncommitted actions",
			slog.String("scope_id", rc.ID()),
			slog.Int("actions", discarded),
		)
	}

	if err != nil {
		return fmt.Errorf("terminate scope %s: %w", rc.ID(), err)
	}

	return nil
}

// Current returns the bound RequestContext or ErrNotActive.
func (c *Container) Current() (*RequestContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNotActive
	}

	return c.current, nil
}

// Close refuses further activations and tears down a scope still bound.
// A scope left behind here means some invocation leaked its ownership.
func (c *Container) Close() error {
	c.mu.Lock()
	c.closed = true
	leaked := c.current != nil
	c.mu.Unlock()

	if leaked {
		c.logger.Error("request scope still active at container close")
	}

	return c.Terminate()
}

// WithContainer binds c to ctx.
func WithContainer(ctx context.Context, c *Container) context.Context {
	return context.WithValue(ctx, containerKey{}, c)
}

// ContainerFromContext returns the container bound to ctx, or nil.
func ContainerFromContext(ctx context.Context) *Container {
	if ctx == nil {
		return nil
	}

	c, _ := ctx.Value(containerKey{}).(*Container)

	return c
}

// Resolve is a ports.ContextResolver that returns the container bound to ctx.
func Resolve(ctx context.Context) (ports.ManagedContext, error) {
	c := ContainerFromContext(ctx)
	if c == nil {
		return nil, ErrNoContainer
	}

	return c, nil
}
