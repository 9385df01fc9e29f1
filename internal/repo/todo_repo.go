// Package repo defines the persistence contract for the Todo aggregate and
// its interchangeable backends: in-memory, redis key-value, and a SQL table
// with a read-through cache.
package repo

import (
	"context"

	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
)

// TodoRepo is the repository contract. All methods take a context and may
// block on I/O. FindByID reports absence via the bool, not an error; Remove
// of an absent id is the not-found error case.
type TodoRepo interface {
	FindByID(ctx context.Context, id dom.TodoID) (dom.Todo, bool, error)
	FindAll(ctx context.Context) ([]dom.Todo, error)
	Save(ctx context.Context, t dom.Todo) error
	Remove(ctx context.Context, id dom.TodoID) error
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
