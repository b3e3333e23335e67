// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/platform/async"
)

// ModelRepository persists models.
type ModelRepository interface {
	// Get returns the model with the given id.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Model, error)

	// Save stores a model. A model whose version is not newer than the
	// stored one is rejected with domain.ErrConflict.
	Save(ctx context.Context, model *domain.Model) error

	// Delete removes a model. Deleting a missing model is not an error.
	Delete(ctx context.Context, id string) error

	// List returns up to limit models ordered by id. A limit of zero or less
	// returns every model.
	List(ctx context.Context, limit int) ([]*domain.Model, error)
}

// HelloClient calls the downstream greeting service.
//
// Hello starts the call immediately; the returned future settles with the
// greeting or with domain.ErrUnavailable when the service cannot be reached.
type HelloClient interface {
	Hello(ctx context.Context) *async.Future[string]
}
