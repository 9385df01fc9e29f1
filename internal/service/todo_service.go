// Package service orchestrates domain transitions, persistence and domain
// event emission. Validation itself lives in the domain constructors; the
// service only sequences them.
package service

import (
	"context"
	"sort"
	"sync"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
	"github.com/aki-motty/todo-copilot-sub000/internal/logging"
	"github.com/aki-motty/todo-copilot-sub000/internal/repo"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// TodoService is the application service for the Todo aggregate. It is safe
// for concurrent use as long as callers do not issue overlapping mutating
// commands for the same todo id; last write wins in that case.
type TodoService struct {
	repo repo.TodoRepo
	log  logging.Logger

	mu     sync.Mutex
	events []dom.Event
}

func NewTodoService(r repo.TodoRepo, log logging.Logger) *TodoService {
	return &TodoService{repo: r, log: log}
}

// ListResult carries a page of todos plus cursor metadata.
type ListResult struct {
	Items   []dom.Todo
	Count   int
	HasMore bool
	Cursor  string // id of the last returned item, resumes iteration
}

func (s *TodoService) Create(ctx context.Context, rawTitle string) (dom.Todo, error) {
	title, err := dom.NewTitle(rawTitle)
	if err != nil {
		return dom.Todo{}, err
	}
	t := dom.NewTodo(title)
	if err := s.repo.Save(ctx, t); err != nil {
		s.log.Error("save todo failed", "id", t.ID(), "err", err)
		return dom.Todo{}, err
	}
	s.append(dom.NewEvent(dom.EventTodoCreated, t.ID()))
	s.log.Info("todo created", "id", t.ID())
	return t, nil
}

func (s *TodoService) GetByID(ctx context.Context, id dom.TodoID) (dom.Todo, error) {
	t, ok, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("load todo failed", "id", id, "err", err)
		return dom.Todo{}, err
	}
	if !ok {
		return dom.Todo{}, apperr.NotFoundf("todo %s not found", id)
	}
	return t, nil
}

// List returns todos newest-first. A non-empty cursor resumes strictly after
// the item with that id in the same ordering.
func (s *TodoService) List(ctx context.Context, limit int, cursor string) (ListResult, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("list todos failed", "err", err)
		return ListResult{}, err
	}
	sortNewestFirst(all)

	start := 0
	if cursor != "" {
		found := false
		for i, t := range all {
			if t.ID().String() == cursor {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return ListResult{}, apperr.Validationf("unknown cursor %q", cursor)
		}
	}

	rest := all[start:]
	hasMore := len(rest) > limit
	if hasMore {
		rest = rest[:limit]
	}
	items := make([]dom.Todo, len(rest))
	copy(items, rest)

	out := ListResult{Items: items, Count: len(items), HasMore: hasMore}
	if len(items) > 0 {
		out.Cursor = items[len(items)-1].ID().String()
	}
	return out, nil
}

func (s *TodoService) ToggleCompletion(ctx context.Context, id dom.TodoID) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		next := t.ToggleCompletion()
		kind := dom.EventTodoUncompleted
		if next.Completed() {
			kind = dom.EventTodoCompleted
		}
		return next, kind, nil
	})
}

func (s *TodoService) UpdateTitle(ctx context.Context, id dom.TodoID, rawTitle string) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		title, err := dom.NewTitle(rawTitle)
		if err != nil {
			return dom.Todo{}, "", err
		}
		return t.UpdateTitle(title), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) UpdateDescription(ctx context.Context, id dom.TodoID, raw string) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		desc, err := dom.NewDescription(raw)
		if err != nil {
			return dom.Todo{}, "", err
		}
		return t.UpdateDescription(desc), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) AddTag(ctx context.Context, id dom.TodoID, name string) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		tag, err := dom.NewTag(name)
		if err != nil {
			return dom.Todo{}, "", err
		}
		return t.AddTag(tag), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) RemoveTag(ctx context.Context, id dom.TodoID, name string) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		tag, err := dom.NewTag(name)
		if err != nil {
			return dom.Todo{}, "", err
		}
		return t.RemoveTag(tag), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) AddSubtask(ctx context.Context, id dom.TodoID, rawTitle string) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		title, err := dom.NewTitle(rawTitle)
		if err != nil {
			return dom.Todo{}, "", err
		}
		return t.AddSubtask(title), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) ToggleSubtask(ctx context.Context, id dom.TodoID, subID dom.SubtaskID) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		return t.ToggleSubtask(subID), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) RemoveSubtask(ctx context.Context, id dom.TodoID, subID dom.SubtaskID) (dom.Todo, error) {
	return s.mutate(ctx, id, func(t dom.Todo) (dom.Todo, dom.EventKind, error) {
		return t.RemoveSubtask(subID), dom.EventTodoUpdated, nil
	})
}

func (s *TodoService) Delete(ctx context.Context, id dom.TodoID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, id); err != nil {
		s.log.Error("remove todo failed", "id", id, "err", err)
		return err
	}
	s.append(dom.NewEvent(dom.EventTodoDeleted, id))
	s.log.Info("todo deleted", "id", id)
	return nil
}

// DrainEvents atomically returns the buffered events in command-completion
// order and clears the buffer.
func (s *TodoService) DrainEvents() []dom.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.events
	s.events = nil
	return out
}

// mutate runs the load/transition/persist/emit sequence shared by every
// mutating command. An unchanged updatedAt means the aggregate reported a
// no-op (idempotent addTag); nothing is saved and no event fires.
func (s *TodoService) mutate(ctx context.Context, id dom.TodoID, fn func(dom.Todo) (dom.Todo, dom.EventKind, error)) (dom.Todo, error) {
	cur, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Todo{}, err
	}
	next, kind, err := fn(cur)
	if err != nil {
		return dom.Todo{}, err
	}
	if next.UpdatedAt().Equal(cur.UpdatedAt()) {
		return cur, nil
	}
	if err := s.repo.Save(ctx, next); err != nil {
		s.log.Error("save todo failed", "id", id, "err", err)
		return dom.Todo{}, err
	}
	s.append(dom.NewEvent(kind, id))
	return next, nil
}

func (s *TodoService) append(e dom.Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// sortNewestFirst orders by createdAt descending; ties break by id descending
// so the order, and therefore the cursor, is unambiguous.
func sortNewestFirst(list []dom.Todo) {
	sort.Slice(list, func(i, j int) bool {
		ci, cj := list[i].CreatedAt(), list[j].CreatedAt()
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return list[i].ID() > list[j].ID()
	})
}
