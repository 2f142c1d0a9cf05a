// Package storage defines the task persistence contract and its backends.
//
// Every backend implements the same six operations with identical
// semantics: ids and timestamps are assigned by the store, titles are
// validated before persistence, and missing records surface as
// errors.ErrTaskNotFound regardless of how the underlying store reports
// them. Callers receive copies; no record is shared across the boundary.
package storage

import (
	"context"

	model "github.com/jacqinthebox/todolist/internal/models"
)

// TaskUpdate carries a partial update. Nil fields keep their prior values.
type TaskUpdate struct {
	Title     *string
	Completed *bool
}

type Store interface {
	// Create allocates an id, stamps created_at == updated_at and persists
	// the task with Completed false.
	Create(ctx context.Context, title string) (*model.Task, error)

	Get(ctx context.Context, id string) (*model.Task, error)

	// List returns all persisted tasks. Order is stable within one backend
	// instance but not comparable across backends.
	List(ctx context.Context) ([]model.Task, error)

	// Update applies only the fields set in upd and refreshes updated_at.
	Update(ctx context.Context, id string, upd TaskUpdate) (*model.Task, error)

	// Toggle flips Completed and refreshes updated_at.
	Toggle(ctx context.Context, id string) (*model.Task, error)

	// Delete removes the task. Deleting a missing id is an error.
	Delete(ctx context.Context, id string) error
}
