package domain

// Subtask is owned exclusively by its parent Todo: it has no independent
// lifecycle or persistence, and holds only the parent's id, not a pointer.
type Subtask struct {
	id        SubtaskID
	title     Title
	completed bool
	parentID  TodoID
}

func newSubtask(parent TodoID, title Title) Subtask {
	return Subtask{id: NewSubtaskID(), title: title, parentID: parent}
}

func (s Subtask) ID() SubtaskID { return s.id }

func (s Subtask) Title() Title { return s.title }

func (s Subtask) Completed() bool { return s.completed }

func (s Subtask) ParentID() TodoID { return s.parentID }
