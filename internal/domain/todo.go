// Package domain holds the Todo aggregate, its owned substructures and value
// objects. It does not depend on Gin, Postgres or Redis.
package domain

import "time"

// Todo is the aggregate root. All mutations of its subtasks and tags go
// through its transition methods, and every transition returns a new instance,
// leaving the receiver untouched. Instances are therefore freely shareable
// across readers without synchronization.
type Todo struct {
	id          TodoID
	title       Title
	description Description
	completed   bool
	createdAt   time.Time
	updatedAt   time.Time
	subtasks    []Subtask
	tags        []Tag
}

// NewTodo creates a fresh Todo: new id, not completed, empty description,
// subtasks and tags, createdAt == updatedAt.
func NewTodo(title Title) Todo {
	now := time.Now().UTC()
	return Todo{
		id:        NewTodoID(),
		title:     title,
		createdAt: now,
		updatedAt: now,
	}
}

func (t Todo) ID() TodoID { return t.id }

func (t Todo) Title() Title { return t.title }

func (t Todo) Description() Description { return t.description }

func (t Todo) Completed() bool { return t.completed }

func (t Todo) CreatedAt() time.Time { return t.createdAt }

func (t Todo) UpdatedAt() time.Time { return t.updatedAt }

// Subtasks returns a copy; mutating it cannot corrupt the aggregate.
func (t Todo) Subtasks() []Subtask {
	out := make([]Subtask, len(t.subtasks))
	copy(out, t.subtasks)
	return out
}

// Tags returns a copy in insertion order.
func (t Todo) Tags() []Tag {
	out := make([]Tag, len(t.tags))
	copy(out, t.tags)
	return out
}

func (t Todo) HasTag(tag Tag) bool {
	for _, v := range t.tags {
		if v.Equals(tag) {
			return true
		}
	}
	return false
}

func (t Todo) FindSubtask(id SubtaskID) (Subtask, bool) {
	for _, s := range t.subtasks {
		if s.id == id {
			return s, true
		}
	}
	return Subtask{}, false
}

// touch returns the updatedAt for a new instance. Guaranteed to be strictly
// after the receiver's updatedAt even if the clock has not advanced.
func (t Todo) touch() time.Time {
	now := time.Now().UTC()
	if !now.After(t.updatedAt) {
		now = t.updatedAt.Add(time.Nanosecond)
	}
	return now
}

// ToggleCompletion flips the completed flag. Completing the Todo also
// completes every incomplete subtask; toggling back to incomplete leaves the
// subtasks as they are.
func (t Todo) ToggleCompletion() Todo {
	out := t
	out.completed = !t.completed
	subs := t.Subtasks()
	if out.completed {
		for i := range subs {
			subs[i].completed = true
		}
	}
	out.subtasks = subs
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}

// AddSubtask appends a new incomplete subtask with a fresh id.
func (t Todo) AddSubtask(title Title) Todo {
	out := t
	out.subtasks = append(t.Subtasks(), newSubtask(t.id, title))
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}

// RemoveSubtask removes the matching subtask. Removing an absent id is not an
// error.
func (t Todo) RemoveSubtask(id SubtaskID) Todo {
	out := t
	subs := make([]Subtask, 0, len(t.subtasks))
	for _, s := range t.subtasks {
		if s.id != id {
			subs = append(subs, s)
		}
	}
	out.subtasks = subs
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}

// ToggleSubtask flips the completed flag of the matching subtask; absent ids
// are ignored.
func (t Todo) ToggleSubtask(id SubtaskID) Todo {
	out := t
	subs := t.Subtasks()
	for i := range subs {
		if subs[i].id == id {
			subs[i].completed = !subs[i].completed
		}
	}
	out.subtasks = subs
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}

// AddTag adds the tag unless it is already present. The duplicate case
// returns the receiver unchanged so updatedAt does not churn.
func (t Todo) AddTag(tag Tag) Todo {
	if t.HasTag(tag) {
		return t
	}
	out := t
	out.tags = append(t.Tags(), tag)
	out.subtasks = t.Subtasks()
	out.updatedAt = t.touch()
	return out
}

// RemoveTag removes the tag if present; absent tags are ignored.
func (t Todo) RemoveTag(tag Tag) Todo {
	out := t
	tags := make([]Tag, 0, len(t.tags))
	for _, v := range t.tags {
		if !v.Equals(tag) {
			tags = append(tags, v)
		}
	}
	out.tags = tags
	out.subtasks = t.Subtasks()
	out.updatedAt = t.touch()
	return out
}

// UpdateDescription replaces the description.
func (t Todo) UpdateDescription(d Description) Todo {
	out := t
	out.description = d
	out.subtasks = t.Subtasks()
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}

// UpdateTitle replaces the title.
func (t Todo) UpdateTitle(title Title) Todo {
	out := t
	out.title = title
	out.subtasks = t.Subtasks()
	out.tags = t.Tags()
	out.updatedAt = t.touch()
	return out
}
