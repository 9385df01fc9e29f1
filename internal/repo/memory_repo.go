package repo

import (
	"context"
	"sync"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
)

// MemoryRepo keeps todos in a process-local map. Used as the dev backend and
// in tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	todos map[dom.TodoID]dom.Todo
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{todos: make(map[dom.TodoID]dom.Todo)}
}

func (r *MemoryRepo) FindByID(_ context.Context, id dom.TodoID) (dom.Todo, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.todos[id]
	return t, ok, nil
}

func (r *MemoryRepo) FindAll(_ context.Context) ([]dom.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]dom.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		out = append(out, t)
	}
	return out, nil
}

func (r *MemoryRepo) Save(_ context.Context, t dom.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos[t.ID()] = t
	return nil
}

func (r *MemoryRepo) Remove(_ context.Context, id dom.TodoID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return apperr.NotFoundf("todo %s not found", id)
	}
	delete(r.todos, id)
	return nil
}

func (r *MemoryRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.todos = make(map[dom.TodoID]dom.Todo)
	return nil
}

func (r *MemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.todos), nil
}
