package domain

import "github.com/google/uuid"

// TodoID identifies a Todo aggregate. Distinct from SubtaskID at the type
// level so the two kinds of identifier cannot be mixed up.
type TodoID string

// SubtaskID identifies a subtask within its parent Todo.
type SubtaskID string

func NewTodoID() TodoID { return TodoID(uuid.NewString()) }

func NewSubtaskID() SubtaskID { return SubtaskID(uuid.NewString()) }

func (id TodoID) String() string { return string(id) }

func (id SubtaskID) String() string { return string(id) }

func (id TodoID) IsZero() bool { return id == "" }

func (id SubtaskID) IsZero() bool { return id == "" }
