// Package repository provides ModelRepository implementations.
package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jsamuelsen/reqscope-service/internal/domain"
	"github.com/jsamuelsen/reqscope-service/internal/ports"
)

var _ ports.ModelRepository = (*Memory)(nil)

// Memory is an in-process ModelRepository. Stored models are copied on the
// way in and out so callers cannot mutate them.
type Memory struct {
	mu     sync.RWMutex
	models map[string]*domain.Model
}

// NewMemory creates an empty repository.
func NewMemory() *Memory {
	return &Memory{models: make(map[string]*domain.Model)}
}

// Get returns the model with the given id.
func (r *Memory) Get(ctx context.Context, id string) (*domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.models[id]
	if !ok {
		return nil, domain.NewNotFoundError("model", id)
	}

	return clone(m), nil
}

// Save stores model when its version is newer than the stored one.
func (r *Memory) Save(ctx context.Context, model *domain.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.models[model.ID]; ok && model.Version <= cur.Version {
		return domain.NewConflictError("model",
			fmt.Sprintf("version %d of %q is not newer than stored version %d", model.Version, model.ID, cur.Version))
	}

	r.models[model.ID] = clone(model)

	return nil
}

// Delete removes the model with the given id.
func (r *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.models, id)
	r.mu.Unlock()

	return nil
}

// List returns up to limit models ordered by id.
func (r *Memory) List(ctx context.Context, limit int) ([]*domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]*domain.Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, clone(m))
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *domain.Model) int { return strings.Compare(a.ID, b.ID) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Ping reports readiness. The in-memory store is always ready once built.
func (r *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func clone(m *domain.Model) *domain.Model {
	c := *m
	c.Tags = slices.Clone(m.Tags)

	return &c
}
