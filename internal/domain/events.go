package domain

import "time"

// EventKind names the transition a domain event describes.
type EventKind string

const (
	EventTodoCreated     EventKind = "todo.created"
	EventTodoCompleted   EventKind = "todo.completed"
	EventTodoUncompleted EventKind = "todo.uncompleted"
	EventTodoUpdated     EventKind = "todo.updated"
	EventTodoDeleted     EventKind = "todo.deleted"
)

// Event records one completed transition of a Todo. Events live in an
// in-process buffer drained by the caller; the core never persists them.
type Event struct {
	Kind       EventKind
	TodoID     TodoID
	OccurredAt time.Time
}

func NewEvent(kind EventKind, id TodoID) Event {
	return Event{Kind: kind, TodoID: id, OccurredAt: time.Now().UTC()}
}
