package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// Parallel runs fns concurrently and returns their results in order, or the
// first error. The remaining functions see a cancelled context.
func Parallel[T any](ctx context.Context, fns ...func(context.Context) (T, error)) ([]T, error) {
	return ParallelLimit(ctx, -1, fns...)
}

// ParallelLimit is Parallel with at most limit functions running at once.
// A negative limit means no limit.
func ParallelLimit[T any](ctx context.Context, limit int, fns ...func(context.Context) (T, error)) ([]T, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]T, len(fns))

	for i, fn := range fns {
		g.Go(func() error {
			result, err := fn(ctx)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("parallel execution failed: %w", err)
	}

	return results, nil
}

// AwaitAll starts each future with bounded concurrency and waits for all of
// them. Every started future has settled by the time AwaitAll returns, even
// after a failure cancelled the rest.
func AwaitAll[T any](ctx context.Context, limit int, starts ...func(context.Context) *async.Future[T]) ([]T, error) {
	fns := make([]func(context.Context) (T, error), len(starts))

	for i, start := range starts {
		fns[i] = func(ctx context.Context) (T, error) {
			return start(ctx).Await(context.WithoutCancel(ctx))
		}
	}

	return ParallelLimit(ctx, limit, fns...)
}
