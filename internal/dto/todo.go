// Package dto defines the transport-facing request and response shapes and
// the explicit mapping from the domain aggregate. No runtime type coercion:
// every mapping is a plain typed function.
package dto

import (
	"time"

	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
)

type CreateTodoRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateDescriptionRequest struct {
	Description string `json:"description"`
}

type AddTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

type AddSubtaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type SubtaskResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type TodoResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Completed   bool              `json:"completed"`
	CreatedAt   string            `json:"createdAt"`
	UpdatedAt   string            `json:"updatedAt"`
	Subtasks    []SubtaskResponse `json:"subtasks"`
	Tags        []string          `json:"tags"`
}

type ListTodosResponse struct {
	Items   []TodoResponse `json:"items"`
	Count   int            `json:"count"`
	HasMore bool           `json:"hasMore"`
	Cursor  string         `json:"cursor,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// FromTodo flattens the aggregate: timestamps as ISO-8601 text, subtasks and
// tags as plain arrays (never null).
func FromTodo(t dom.Todo) TodoResponse {
	subs := t.Subtasks()
	subResp := make([]SubtaskResponse, len(subs))
	for i, s := range subs {
		subResp[i] = SubtaskResponse{
			ID:        s.ID().String(),
			Title:     s.Title().String(),
			Completed: s.Completed(),
		}
	}
	tags := t.Tags()
	tagNames := make([]string, len(tags))
	for i, tag := range tags {
		tagNames[i] = tag.Name()
	}
	return TodoResponse{
		ID:          t.ID().String(),
		Title:       t.Title().String(),
		Description: t.Description().String(),
		Completed:   t.Completed(),
		CreatedAt:   t.CreatedAt().Format(time.RFC3339Nano),
		UpdatedAt:   t.UpdatedAt().Format(time.RFC3339Nano),
		Subtasks:    subResp,
		Tags:        tagNames,
	}
}

func FromTodos(list []dom.Todo) []TodoResponse {
	out := make([]TodoResponse, len(list))
	for i := range list {
		out[i] = FromTodo(list[i])
	}
	return out
}
