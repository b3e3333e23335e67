package context

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type ctxKey struct{}

// RequestContext is the state of one activated request scope: a memo cache
// for lazy fetches, staged write actions and destroy callbacks.
type RequestContext struct {
	id        string
	ctx       context.Context
	started   time.Time
	cache     sync.Map
	mu        sync.Mutex
	actions   []Action
	destroy   []func() error
	committed bool
	destroyed bool
}

// New creates a RequestContext bound to ctx with a fresh scope ID.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{
		id:      uuid.NewString(),
		ctx:     ctx,
		started: time.Now(),
	}
}

// FromContext returns the RequestContext attached to ctx with WithContext,
// falling back to the active scope of the container bound to ctx.
// It returns nil when neither is present.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok {
		return rc
	}

	if c := ContainerFromContext(ctx); c != nil {
		rc, _ := c.Current()
		return rc
	}

	return nil
}

// WithContext stores rc in ctx.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// ID returns the scope identifier.
func (rc *RequestContext) ID() string { return rc.id }

// Context returns the context the scope was activated with.
func (rc *RequestContext) Context() context.Context { return rc.ctx }

// Started returns the activation time.
func (rc *RequestContext) Started() time.Time { return rc.started }

// GetOrFetch returns the cached value for key, calling fetchFn with ctx on a
// miss. A nil ctx falls back to the scope's activation context. Failed
// fetches are not cached.
func (rc *RequestContext) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if cached, ok := rc.cache.Load(key); ok {
		return cached, nil
	}

	if ctx == nil {
		ctx = rc.ctx
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return nil, err
	}

	actual, _ := rc.cache.LoadOrStore(key, value)

	return actual, nil
}

// OnTerminate registers fn to run when the scope is torn down. Callbacks run
// in reverse registration order.
func (rc *RequestContext) OnTerminate(fn func() error) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.destroyed {
		return ErrDestroyed
	}

	rc.destroy = append(rc.destroy, fn)

	return nil
}

// Destroyed reports whether the scope has been torn down.
func (rc *RequestContext) Destroyed() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	return rc.destroyed
}

// teardown runs the destroy callbacks once and drops cached values. It
// returns the number of staged actions that were never committed.
func (rc *RequestContext) teardown() (int, error) {
	rc.mu.Lock()
	if rc.destroyed {
		rc.mu.Unlock()
		return 0, nil
	}

	rc.destroyed = true
	callbacks := rc.destroy
	rc.destroy = nil

	discarded := 0
	if !rc.committed {
		discarded = len(rc.actions)
	}
	rc.actions = nil
	rc.mu.Unlock()

	var errs []error
	for i := len(callbacks) - 1; i >= 0; i-- {
		if err := callbacks[i](); err != nil {
			errs = append(errs, err)
		}
	}

	rc.cache.Clear()

	return discarded, errors.Join(errs...)
}
