package scope

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/reqscope-service/internal/mocks"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeContainer records the lifecycle calls it receives together with the
// operation's own "proceed" marker.
type fakeContainer struct {
	mu           sync.Mutex
	active       bool
	events       []string
	activateErr  error
	terminateErr error
}

func (f *fakeContainer) IsActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.active
}

func (f *fakeContainer) Activate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, "activate")
	if f.activateErr != nil {
		return f.activateErr
	}

	f.active = true

	return nil
}

func (f *fakeContainer) Terminate() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, "terminate")
	f.active = false

	return f.terminateErr
}

func (f *fakeContainer) mark(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, event)
}

func (f *fakeContainer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.events...)
}

type recordingObserver struct {
	mu         sync.Mutex
	activated  []string
	terminated []string
	failed     []string
	termErrs   []error
}

func (r *recordingObserver) ScopeActivated(shape string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activated = append(r.activated, shape)
}

func (r *recordingObserver) ScopeTerminated(shape string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminated = append(r.terminated, shape)
	r.termErrs = append(r.termErrs, err)
}

func (r *recordingObserver) ActivationFailed(shape string, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, shape)
}

func newGuard(t *testing.T, mc ports.ManagedContext) *Guard {
	t.Helper()

	g, err := New(Config{
		Resolver: func(context.Context) (ports.ManagedContext, error) { return mc, nil },
	})
	require.NoError(t, err)

	return g
}

func logCapture(t *testing.T) (context.Context, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return logging.WithContext(context.Background(), logger), &buf
}

var (
	errOperation  = errors.New("operation failed")
	errActivation = errors.New("activation refused")
	errTeardown   = errors.New("teardown failed")
)

func TestNew_RequiresResolver(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

// Direct

func TestCall_OwnsScope(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	v, err := Call(context.Background(), g, func(context.Context) (int, error) {
		fc.mark("proceed")
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, []string{"activate", "proceed", "terminate"}, fc.recorded())
	assert.False(t, fc.IsActive())
}

func TestCall_OperationFailure(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	_, err := Call(context.Background(), g, func(context.Context) (int, error) {
		fc.mark("proceed")
		return 0, errOperation
	})

	assert.ErrorIs(t, err, errOperation)
	assert.Equal(t, []string{"activate", "proceed", "terminate"}, fc.recorded())
}

func TestCall_PanicTerminatesThenPropagates(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	assert.PanicsWithValue(t, "kaboom", func() {
		_, _ = Call(context.Background(), g, func(context.Context) (int, error) {
			fc.mark("proceed")
			panic("kaboom")
		})
	})

	assert.Equal(t, []string{"activate", "proceed", "terminate"}, fc.recorded())
}

func TestCall_TerminationFailure(t *testing.T) {
	tests := []struct {
		name       string
		opErr      error
		wantErr    error
		wantTermAs bool
		wantLog    bool
	}{
		{
			name:       "surfaced after success",
			wantErr:    errTeardown,
			wantTermAs: true,
		},
		{
			name:    "logged after failure",
			opErr:   errOperation,
			wantErr: errOperation,
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeContainer{terminateErr: errTeardown}
			g := newGuard(t, fc)
			ctx, logs := logCapture(t)

			v, err := Call(ctx, g, func(context.Context) (string, error) {
				if tt.opErr != nil {
					return "", tt.opErr
				}
				return "value", nil
			})

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, v)
			assert.Equal(t, tt.wantTermAs, IsTerminationError(err))
			assert.Equal(t, tt.wantLog, bytes.Contains(logs.Bytes(), []byte("request scope termination failed")))
		})
	}
}

func TestCall_ActivationFailure(t *testing.T) {
	fc := &fakeContainer{activateErr: errActivation}
	g := newGuard(t, fc)

	called := false
	_, err := Call(context.Background(), g, func(context.Context) (int, error) {
		called = true
		return 1, nil
	})

	require.ErrorIs(t, err, errActivation)
	assert.True(t, IsActivationError(err))
	assert.False(t, called)
	assert.Equal(t, []string{"activate"}, fc.recorded())
}

func TestCall_ResolverFailures(t *testing.T) {
	errResolve := errors.New("resolve failed")

	tests := []struct {
		name     string
		resolver ports.ContextResolver
		wantErr  error
	}{
		{
			name:     "resolver error",
			resolver: func(context.Context) (ports.ManagedContext, error) { return nil, errResolve },
			wantErr:  errResolve,
		},
		{
			name:     "no container",
			resolver: func(context.Context) (ports.ManagedContext, error) { return nil, nil },
			wantErr:  ErrNoContainer,
		},
		{
			name: "resolver panic",
			resolver: func(context.Context) (ports.ManagedContext, error) {
				panic("resolver exploded")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(Config{Resolver: tt.resolver})
			require.NoError(t, err)

			_, err = Call(context.Background(), g, func(context.Context) (int, error) {
				t.Fatal("proceed must not run")
				return 0, nil
			})

			require.True(t, IsActivationError(err))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.True(t, async.IsPanic(err))
			}
		})
	}
}

// Already active: every strategy passes through without touching the scope.

func TestAlreadyActive_PassThrough(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(t *testing.T, g *Guard) (any, error)
		want any
	}{
		{
			name: "direct",
			run: func(_ *testing.T, g *Guard) (any, error) {
				return Call(ctx, g, func(context.Context) (int, error) { return 7, nil })
			},
			want: 7,
		},
		{
			name: "future",
			run: func(_ *testing.T, g *Guard) (any, error) {
				return CallFuture(ctx, g, func(context.Context) (*async.Future[int], error) {
					return async.Completed(7), nil
				}).Await(ctx)
			},
			want: 7,
		},
		{
			name: "single",
			run: func(_ *testing.T, g *Guard) (any, error) {
				return CallSingle(g, func(context.Context) (async.Single[int], error) {
					return async.Just(7), nil
				}).Await(ctx)
			},
			want: 7,
		},
		{
			name: "stream",
			run: func(_ *testing.T, g *Guard) (any, error) {
				return CallStream(g, func(context.Context) (async.Stream[int], error) {
					return async.Of(7), nil
				}).Collect(ctx)
			},
			want: []int{7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := mocks.NewMockManagedContext(t)
			mc.EXPECT().IsActive().Return(true).Once()

			got, err := tt.run(t, newGuard(t, mc))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			mc.AssertNotCalled(t, "Activate")
			mc.AssertNotCalled(t, "Terminate")
		})
	}
}

// Activation failure: every strategy reports it through its own channel and
// never runs the operation.

func TestActivationFailure_AllShapes(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		run  func(g *Guard, proceeded *bool) error
	}{
		{
			name: "future",
			run: func(g *Guard, proceeded *bool) error {
				f := CallFuture(ctx, g, func(context.Context) (*async.Future[int], error) {
					*proceeded = true
					return async.Completed(1), nil
				})
				_, err := f.Await(ctx)
				return err
			},
		},
		{
			name: "single",
			run: func(g *Guard, proceeded *bool) error {
				s := CallSingle(g, func(context.Context) (async.Single[int], error) {
					*proceeded = true
					return async.Just(1), nil
				})
				_, err := s.Await(ctx)
				return err
			},
		},
		{
			name: "stream",
			run: func(g *Guard, proceeded *bool) error {
				s := CallStream(g, func(context.Context) (async.Stream[int], error) {
					*proceeded = true
					return async.Of(1), nil
				})
				return s.Subscribe(ctx, func(int) error { return nil })
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mc := mocks.NewMockManagedContext(t)
			mc.EXPECT().IsActive().Return(false).Once()
			mc.EXPECT().Activate().Return(errActivation).Once()

			obs := &recordingObserver{}
			g, err := New(Config{
				Resolver: func(context.Context) (ports.ManagedContext, error) { return mc, nil },
				Observer: obs,
			})
			require.NoError(t, err)

			proceeded := false
			err = tt.run(g, &proceeded)

			require.ErrorIs(t, err, errActivation)
			assert.True(t, IsActivationError(err))
			assert.False(t, proceeded)
			mc.AssertNotCalled(t, "Terminate")
			assert.Equal(t, []string{tt.name}, obs.failed)
		})
	}
}

// Future

func TestCallFuture_TerminatesOnCompletion(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)
	p, upstream := async.NewPromise[string]()

	f := CallFuture(context.Background(), g, func(context.Context) (*async.Future[string], error) {
		fc.mark("proceed")
		return upstream, nil
	})

	assert.Equal(t, []string{"activate", "proceed"}, fc.recorded())
	assert.True(t, fc.IsActive())

	p.Resolve("done")

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "done", v)
	assert.Equal(t, []string{"activate", "proceed", "terminate"}, fc.recorded())
}

func TestCallFuture_FailedFuture(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	f := CallFuture(context.Background(), g, func(context.Context) (*async.Future[int], error) {
		return async.Failed[int](errOperation), nil
	})

	_, err := f.Await(context.Background())
	require.ErrorIs(t, err, errOperation)
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

func TestCallFuture_SynchronousFailures(t *testing.T) {
	tests := []struct {
		name    string
		proceed func(context.Context) (*async.Future[int], error)
		check   func(t *testing.T, err error)
	}{
		{
			name: "error return",
			proceed: func(context.Context) (*async.Future[int], error) {
				return nil, errOperation
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, errOperation) },
		},
		{
			name: "panic",
			proceed: func(context.Context) (*async.Future[int], error) {
				panic("sync panic")
			},
			check: func(t *testing.T, err error) { assert.True(t, async.IsPanic(err)) },
		},
		{
			name: "nil future",
			proceed: func(context.Context) (*async.Future[int], error) {
				return nil, nil
			},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, async.ErrNilHandle) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeContainer{}
			g := newGuard(t, fc)

			var f *async.Future[int]
			require.NotPanics(t, func() {
				f = CallFuture(context.Background(), g, tt.proceed)
			})
			require.NotNil(t, f)

			_, err := f.Await(context.Background())
			tt.check(t, err)
			assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
		})
	}
}

func TestCallFuture_TerminationFailureAfterSuccess(t *testing.T) {
	fc := &fakeContainer{terminateErr: errTeardown}
	g := newGuard(t, fc)

	f := CallFuture(context.Background(), g, func(ctx context.Context) (*async.Future[int], error) {
		return async.Go(ctx, func(context.Context) (int, error) { return 1, nil }), nil
	})

	_, err := f.Await(context.Background())
	require.ErrorIs(t, err, errTeardown)
	assert.True(t, IsTerminationError(err))
}

// Single

func TestCallSingle_DeferredUntilSubscribed(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	s := CallSingle(g, func(context.Context) (async.Single[int], error) {
		fc.mark("proceed")
		return async.Just(5), nil
	})

	assert.Empty(t, fc.recorded())

	v, err := s.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	_, err = s.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"activate", "proceed", "terminate",
		"activate", "proceed", "terminate",
	}, fc.recorded())
}

func TestCallSingle_ResubscriptionRechecksActivity(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	s := CallSingle(g, func(context.Context) (async.Single[int], error) {
		fc.mark("proceed")
		return async.Just(1), nil
	})

	fc.active = true
	_, err := s.Await(context.Background())
	require.NoError(t, err)

	fc.active = false
	_, err = s.Await(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"proceed", "activate", "proceed", "terminate"}, fc.recorded())
}

func TestCallSingle_SynchronousFailures(t *testing.T) {
	for name, proceed := range map[string]func(context.Context) (async.Single[int], error){
		"error return": func(context.Context) (async.Single[int], error) {
			return async.Single[int]{}, errOperation
		},
		"panic": func(context.Context) (async.Single[int], error) {
			panic(errOperation)
		},
	} {
		t.Run(name, func(t *testing.T) {
			fc := &fakeContainer{}
			g := newGuard(t, fc)

			var s async.Single[int]
			require.NotPanics(t, func() { s = CallSingle(g, proceed) })
			assert.Empty(t, fc.recorded())

			_, err := s.Await(context.Background())
			assert.ErrorIs(t, err, errOperation)
			assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
		})
	}
}

func TestCallSingle_CancelledWhileRunning(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	ctx, cancel := context.WithCancel(context.Background())

	s := CallSingle(g, func(context.Context) (async.Single[int], error) {
		return async.FromFunc(func(ctx context.Context) (int, error) {
			cancel()
			<-ctx.Done()
			return 0, ctx.Err()
		}), nil
	})

	_, err := s.Await(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

func TestCallSingle_CancellationWaitsForProducer(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})

	s := CallSingle(g, func(context.Context) (async.Single[int], error) {
		return async.FromFunc(func(context.Context) (int, error) {
			close(started)
			<-release
			return 7, nil
		}), nil
	})

	type result struct {
		v   int
		err error
	}

	done := make(chan result, 1)
	go func() {
		v, err := s.Await(ctx)
		done <- result{v, err}
	}()

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("Await returned while the producer was still running")
	case <-time.After(20 * time.Millisecond):
	}

	assert.True(t, fc.IsActive(), "scope stays active until the producer returns")

	close(release)
	got := <-done

	require.NoError(t, got.err)
	assert.Equal(t, 7, got.v)
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

// Stream

func TestCallStream_TeardownOnConsumerCancel(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	s := CallStream(g, func(context.Context) (async.Stream[int], error) {
		fc.mark("proceed")
		return async.Of(1, 2, 3), nil
	})

	assert.Empty(t, fc.recorded())

	var got []int
	for v, err := range s.All(context.Background()) {
		require.NoError(t, err)
		got = append(got, v)
		break
	}

	assert.Equal(t, []int{1}, got)
	assert.Equal(t, []string{"activate", "proceed", "terminate"}, fc.recorded())
}

func TestCallStream_TerminationFailureAfterConsumerStop(t *testing.T) {
	fc := &fakeContainer{terminateErr: errTeardown}
	g := newGuard(t, fc)
	ctx, logs := logCapture(t)

	s := CallStream(g, func(context.Context) (async.Stream[int], error) {
		return async.Of(1, 2, 3), nil
	})

	err := s.Subscribe(ctx, func(int) error { return async.ErrStop })

	require.ErrorIs(t, err, errTeardown)
	assert.True(t, IsTerminationError(err))
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
	assert.NotContains(t, logs.String(), "termination failed")
}

func TestCallStream_TeardownOnContextCancel(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := CallStream(g, func(context.Context) (async.Stream[int], error) {
		return async.Generate(func(_ context.Context, emit async.Emit[int]) error {
			for i := 0; ; i++ {
				if err := emit(i); err != nil {
					return err
				}
			}
		}), nil
	})

	err := s.Subscribe(ctx, func(v int) error {
		if v == 3 {
			cancel()
		}
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

func TestCallStream_CompletionAndFailure(t *testing.T) {
	tests := []struct {
		name    string
		stream  async.Stream[int]
		want    []int
		wantErr error
	}{
		{name: "completes", stream: async.Of(1, 2), want: []int{1, 2}},
		{name: "fails", stream: async.FailedStream[int](errOperation), wantErr: errOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeContainer{}
			g := newGuard(t, fc)

			s := CallStream(g, func(context.Context) (async.Stream[int], error) {
				return tt.stream, nil
			})

			got, err := s.Collect(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
		})
	}
}

func TestCallStream_SynchronousPanic(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	s := CallStream(g, func(context.Context) (async.Stream[int], error) {
		panic("no stream for you")
	})

	err := s.Subscribe(context.Background(), func(int) error { return nil })
	assert.True(t, async.IsPanic(err))
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

// Observer

func TestGuard_ReportsLifecycleToObserver(t *testing.T) {
	fc := &fakeContainer{terminateErr: errTeardown}
	obs := &recordingObserver{}

	g, err := New(Config{
		Resolver: func(context.Context) (ports.ManagedContext, error) { return fc, nil },
		Observer: obs,
	})
	require.NoError(t, err)

	_, _ = Call(context.Background(), g, func(context.Context) (int, error) { return 1, nil })

	assert.Equal(t, []string{"direct"}, obs.activated)
	assert.Equal(t, []string{"direct"}, obs.terminated)
	require.Len(t, obs.termErrs, 1)
	assert.ErrorIs(t, obs.termErrs[0], errTeardown)
}

func TestGuard_QuietTerminationFailures(t *testing.T) {
	fc := &fakeContainer{terminateErr: errTeardown}
	g, err := New(Config{
		Resolver:                 func(context.Context) (ports.ManagedContext, error) { return fc, nil },
		QuietTerminationFailures: true,
	})
	require.NoError(t, err)

	ctx, logs := logCapture(t)

	_, err = Call(ctx, g, func(context.Context) (int, error) { return 0, errOperation })

	require.ErrorIs(t, err, errOperation)
	assert.NotContains(t, logs.String(), "termination failed")
}

// Intercept

func TestIntercept_RejectsMismatchedInvocation(t *testing.T) {
	g := newGuard(t, &fakeContainer{})

	tests := []struct {
		name string
		inv  Invocation
	}{
		{
			name: "nil proceed",
			inv:  Invocation{Shape: ShapeFuture, Result: (*async.Future[int])(nil)},
		},
		{
			name: "shape and result disagree",
			inv: Invocation{
				Shape:   ShapeStream,
				Result:  async.Single[int]{},
				Proceed: func(context.Context) (any, error) { return nil, nil },
			},
		},
		{
			name: "result is not a handle",
			inv: Invocation{
				Shape:   ShapeSingle,
				Result:  42,
				Proceed: func(context.Context) (any, error) { return nil, nil },
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Intercept(context.Background(), tt.inv)
			assert.ErrorIs(t, err, ErrUnsupportedSignature)
		})
	}
}

func TestIntercept_WrongHandleType(t *testing.T) {
	fc := &fakeContainer{}
	g := newGuard(t, fc)

	h, err := g.Intercept(context.Background(), Invocation{
		Shape:   ShapeFuture,
		Result:  (*async.Future[int])(nil),
		Proceed: func(context.Context) (any, error) { return async.Completed("text"), nil },
	})
	require.NoError(t, err)

	_, err = h.(*async.Future[int]).Await(context.Background())
	assert.ErrorIs(t, err, async.ErrShapeMismatch)
	assert.Equal(t, []string{"activate", "terminate"}, fc.recorded())
}

// Shapes and classification

type notAHandle struct{}

func (notAHandle) Kind() async.Kind { return async.KindFuture }

func TestShapeOf(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want Shape
	}{
		{reflect.TypeFor[int](), ShapeDirect},
		{reflect.TypeFor[error](), ShapeDirect},
		{reflect.TypeFor[async.Kinded](), ShapeDirect},
		{reflect.TypeFor[*async.Future[int]](), ShapeFuture},
		{reflect.TypeFor[async.Future[int]](), ShapeDirect},
		{reflect.TypeFor[async.Single[string]](), ShapeSingle},
		{reflect.TypeFor[*async.Single[string]](), ShapeDirect},
		{reflect.TypeFor[async.Stream[byte]](), ShapeStream},
		{reflect.TypeFor[notAHandle](), ShapeDirect},
		{nil, ShapeDirect},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ShapeOf(tt.typ), "%v", tt.typ)
	}
}

func TestClassifier_Classify(t *testing.T) {
	c, err := NewClassifier(8)
	require.NoError(t, err)

	tests := []struct {
		name    string
		fn      any
		want    Shape
		wantErr bool
	}{
		{name: "error only", fn: func(context.Context) error { return nil }, want: ShapeDirect},
		{name: "value and error", fn: func(context.Context, string) (int, error) { return 0, nil }, want: ShapeDirect},
		{name: "future", fn: func(context.Context) *async.Future[int] { return nil }, want: ShapeFuture},
		{name: "future and error", fn: func(context.Context) (*async.Future[int], error) { return nil, nil }, want: ShapeFuture},
		{name: "single", fn: func(context.Context) async.Single[int] { return async.Single[int]{} }, want: ShapeSingle},
		{name: "stream", fn: func(context.Context, ...int) async.Stream[int] { return async.Stream[int]{} }, want: ShapeStream},
		{name: "no context", fn: func(string) error { return nil }, wantErr: true},
		{name: "no failure channel", fn: func(context.Context) int { return 0 }, wantErr: true},
		{name: "error not last", fn: func(context.Context) (error, int) { return nil, 0 }, wantErr: true},
		{name: "too many results", fn: func(context.Context) (int, int, error) { return 0, 0, nil }, wantErr: true},
		{name: "not a function", fn: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(reflect.TypeOf(tt.fn))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSignature)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_Memoizes(t *testing.T) {
	c, err := NewClassifier(2)
	require.NoError(t, err)

	ft := reflect.TypeFor[func(context.Context) error]()

	_, err = c.Classify(ft)
	require.NoError(t, err)
	_, err = c.Classify(ft)
	require.NoError(t, err)

	assert.Equal(t, 1, c.cache.Len())
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "direct", ShapeDirect.String())
	assert.Equal(t, "future", ShapeFuture.String())
	assert.Equal(t, "single", ShapeSingle.String())
	assert.Equal(t, "stream", ShapeStream.String())
	assert.Equal(t, "shape(9)", Shape(9).String())
}
