package context

import (
	"context"
	"errors"
	"fmt"
)

// Action is a staged write executed when the scope commits.
type Action interface {
	Execute(ctx context.Context) error

	// Rollback undoes a successful Execute when a later action fails.
	Rollback(ctx context.Context) error

	Description() string
}

// AddAction stages an action for Commit.
func (rc *RequestContext) AddAction(action Action) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	switch {
	case rc.destroyed:
		return ErrDestroyed
	case rc.committed:
		return ErrAlreadyCommitted
	}

	rc.actions = append(rc.actions, action)

	return nil
}

// Commit executes staged actions in order. When one fails, the actions
// already executed are rolled back in reverse order and the scope stays
// uncommitted.
func (rc *RequestContext) Commit(ctx context.Context) error {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	switch {
	case rc.destroyed:
		return ErrDestroyed
	case rc.committed:
		return ErrAlreadyCommitted
	}

	for i, action := range rc.actions {
		if err := action.Execute(ctx); err != nil {
			var rollbackErrs []error
			for j := i - 1; j >= 0; j-- {
				if rbErr := rc.actions[j].Rollback(ctx); rbErr != nil {
					rollbackErrs = append(rollbackErrs, fmt.Errorf("rollback %q: %w", rc.actions[j].Description(), rbErr))
				}
			}

			return errors.Join(fmt.Errorf("action %q failed: %w", action.Description(), err), errors.Join(rollbackErrs...))
		}
	}

	rc.committed = true

	return nil
}

// Actions returns a copy of the staged actions.
func (rc *RequestContext) Actions() []Action {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	result := make([]Action, len(rc.actions))
	copy(result, rc.actions)

	return result
}
