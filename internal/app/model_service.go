// Package app contains application services that orchestrate use cases.
// Every service method runs under the request scope guard: the outermost
// guarded call owns the scope, nested ones see it active and pass through.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	appctx "github.com/jsamuelsen/reqscope-service/internal/app/context"
	"github.com/jsamuelsen/reqscope-service/internal/app/scope"
	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
	"github.com/jsamuelsen/reqscope-service/internal/platform/logging"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

// DefaultBatchConcurrency bounds concurrent item writes in CreateBatch.
const DefaultBatchConcurrency = 8

// ModelService orchestrates model use cases.
type ModelService struct {
	repo       ports.ModelRepository
	guard      *scope.Guard
	exec       *Executor
	logger     *slog.Logger
	batchLimit int
}

// ModelServiceConfig holds the service dependencies.
type ModelServiceConfig struct {
	Repo             ports.ModelRepository
	Guard            *scope.Guard
	Logger           *slog.Logger
	BatchConcurrency int
}

// NewModelService creates a model service.
func NewModelService(cfg ModelServiceConfig) *ModelService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	limit := cfg.BatchConcurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	logger = logger.With(slog.String("component", "app.ModelService"))

	return &ModelService{
		repo:       cfg.Repo,
		guard:      cfg.Guard,
		exec:       NewExecutor(logger),
		logger:     logger,
		batchLimit: limit,
	}
}

// Echo decodes body through the model builder and returns the model
// unchanged. Nothing is stored.
func (s *ModelService) Echo(ctx context.Context, body []byte) (*domain.Model, error) {
	return scope.Call(ctx, s.guard, func(ctx context.Context) (*domain.Model, error) {
		m, err := domain.ModelFromJSON(body)
		if err != nil {
			return nil, fmt.Errorf("decoding model: %w", err)
		}

		logging.FromContextOr(ctx, s.logger).DebugContext(ctx, "model echoed", slog.String("model_id", m.ID))

		return m, nil
	})
}

// Create stores m as the next version of its id. m.Version must be the
// currently stored version, or zero for a new model. A request scope commits
// once, so only one write operation succeeds per scope.
func (s *ModelService) Create(ctx context.Context, m *domain.Model) (*domain.Model, error) {
	return scope.Call(ctx, s.guard, func(ctx context.Context) (*domain.Model, error) {
		saved, err := s.stage(ctx, m)
		if err != nil {
			return nil, err
		}

		if err := commit(ctx); err != nil {
			return nil, err
		}

		return saved, nil
	})
}

// CreateBatch stages every model concurrently and commits them together.
// When any item fails nothing is stored.
func (s *ModelService) CreateBatch(ctx context.Context, models []*domain.Model) ([]*domain.Model, error) {
	return scope.Call(ctx, s.guard, func(ctx context.Context) ([]*domain.Model, error) {
		starts := make([]func(context.Context) *async.Future[*domain.Model], len(models))

		for i, m := range models {
			starts[i] = func(ctx context.Context) *async.Future[*domain.Model] {
				return scope.CallFuture(ctx, s.guard, func(ctx context.Context) (*async.Future[*domain.Model], error) {
					return async.Go(ctx, func(ctx context.Context) (*domain.Model, error) {
						return s.stage(ctx, m)
					}), nil
				})
			}
		}

		saved, err := AwaitAll(ctx, s.batchLimit, starts...)
		if err != nil {
			return nil, fmt.Errorf("staging batch: %w", err)
		}

		if err := commit(ctx); err != nil {
			return nil, err
		}

		logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "model batch stored", slog.Int("count", len(saved)))

		return saved, nil
	})
}

// Lookup returns a single that resolves the model with the given id. Within
// one request scope the repository is read at most once per id.
func (s *ModelService) Lookup(id string) async.Single[*domain.Model] {
	return scope.CallSingle(s.guard, func(ctx context.Context) (async.Single[*domain.Model], error) {
		rc := appctx.FromContext(ctx)
		if rc == nil {
			return async.Single[*domain.Model]{}, appctx.ErrNotActive
		}

		return async.FromFunc(func(ctx context.Context) (*domain.Model, error) {
			v, err := rc.GetOrFetch(ctx, modelKey(id), func(ctx context.Context) (any, error) {
				return s.repo.Get(ctx, id)
			})
			if err != nil {
				return nil, err
			}

			return v.(*domain.Model), nil
		}), nil
	})
}

// Stream emits up to count stored models ordered by id. The listing is read
// when a subscriber arrives, not when Stream is called.
func (s *ModelService) Stream(count int) async.Stream[*domain.Model] {
	return scope.CallStream(s.guard, func(ctx context.Context) (async.Stream[*domain.Model], error) {
		models, err := s.repo.List(ctx, count)
		if err != nil {
			return async.Stream[*domain.Model]{}, fmt.Errorf("listing models: %w", err)
		}

		return async.FromSlice(models), nil
	})
}

type modelWrite struct {
	previous *domain.Model
	next     *domain.Model
}

// stage validates m against the stored version and queues its write on the
// active request scope.
func (s *ModelService) stage(ctx context.Context, m *domain.Model) (*domain.Model, error) {
	return Execute(ctx, s.exec, Operation[*domain.Model, *domain.Model, modelWrite, *domain.Model]{
		Name: "stage_model",
		Validate: func(_ context.Context, in *domain.Model) error {
			if in == nil {
				return domain.NewValidationError("model", "is required")
			}

			_, err := domain.NewModelBuilder().
				WithID(in.ID).
				WithVersion(in.Version).
				WithValue(in.Value).
				WithTags(in.Tags...).
				Build()

			return err
		},
		Perform: func(ctx context.Context, in *domain.Model) (*domain.Model, error) {
			current, err := s.repo.Get(ctx, in.ID)
			if domain.IsNotFound(err) {
				return nil, nil
			}

			return current, err
		},
		Verify: func(_ context.Context, in *domain.Model, current *domain.Model) (modelWrite, error) {
			want := 0
			if current != nil {
				want = current.Version
			}

			if in.Version != want {
				return modelWrite{}, domain.NewConflictError("model",
					fmt.Sprintf("%q is at version %d, got %d", in.ID, want, in.Version))
			}

			return modelWrite{previous: current, next: in.NextVersion()}, nil
		},
		Archive: func(ctx context.Context, _ *domain.Model, w modelWrite) error {
			rc := appctx.FromContext(ctx)
			if rc == nil {
				return appctx.ErrNotActive
			}

			return rc.AddAction(&saveModelAction{repo: s.repo, write: w})
		},
		Respond: func(_ context.Context, _ *domain.Model, w modelWrite) (*domain.Model, error) {
			return w.next, nil
		},
	}, m)
}

func commit(ctx context.Context) error {
	rc := appctx.FromContext(ctx)
	if rc == nil {
		return appctx.ErrNotActive
	}

	if err := rc.Commit(ctx); err != nil {
		return fmt.Errorf("committing models: %w", err)
	}

	return nil
}

func modelKey(id string) string {
	return "model:" + id
}

// saveModelAction writes one model version and restores the previous one on
// rollback.
type saveModelAction struct {
	repo  ports.ModelRepository
	write modelWrite
}

func (a *saveModelAction) Execute(ctx context.Context) error {
	return a.repo.Save(ctx, a.write.next)
}

func (a *saveModelAction) Rollback(ctx context.Context) error {
	err := a.repo.Delete(ctx, a.write.next.ID)
	if a.write.previous != nil {
		err = errors.Join(err, a.repo.Save(ctx, a.write.previous))
	}

	return err
}

func (a *saveModelAction) Description() string {
	return fmt.Sprintf("save model %s@%d", a.write.next.ID, a.write.next.Version)
}
