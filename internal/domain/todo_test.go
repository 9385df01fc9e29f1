package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
)

func mustTitle(t *testing.T, raw string) dom.Title {
	t.Helper()
	title, err := dom.NewTitle(raw)
	require.NoError(t, err)
	return title
}

func TestNewTodo(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release"))

	assert.False(t, todo.ID().IsZero())
	assert.Equal(t, "Ship release", todo.Title().String())
	assert.False(t, todo.Completed())
	assert.True(t, todo.Description().IsEmpty())
	assert.Empty(t, todo.Subtasks())
	assert.Empty(t, todo.Tags())
	assert.True(t, todo.UpdatedAt().Equal(todo.CreatedAt()))
}

func TestToggleCompletionCascade(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release"))
	todo = todo.AddSubtask(mustTitle(t, "Write changelog"))
	todo = todo.AddSubtask(mustTitle(t, "Tag release"))

	done := todo.ToggleCompletion()
	require.True(t, done.Completed())
	for _, s := range done.Subtasks() {
		assert.True(t, s.Completed(), "completing the parent must complete subtask %q", s.Title())
	}
	assert.True(t, done.UpdatedAt().After(done.CreatedAt()))

	// toggling back leaves the subtask states untouched
	undone := done.ToggleCompletion()
	require.False(t, undone.Completed())
	for _, s := range undone.Subtasks() {
		assert.True(t, s.Completed(), "un-completing the parent must not reset subtasks")
	}
}

func TestToggleSubtask(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release")).AddSubtask(mustTitle(t, "Write changelog"))
	sub := todo.Subtasks()[0]
	require.False(t, sub.Completed())
	require.Equal(t, todo.ID(), sub.ParentID())

	toggled := todo.ToggleSubtask(sub.ID())
	got, ok := toggled.FindSubtask(sub.ID())
	require.True(t, ok)
	assert.True(t, got.Completed())

	// absent id is a no-op, not an error
	same := toggled.ToggleSubtask(dom.NewSubtaskID())
	assert.Len(t, same.Subtasks(), 1)
}

func TestRemoveSubtask(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release")).
		AddSubtask(mustTitle(t, "Write changelog")).
		AddSubtask(mustTitle(t, "Tag release"))
	subs := todo.Subtasks()
	require.Len(t, subs, 2)

	removed := todo.RemoveSubtask(subs[0].ID())
	require.Len(t, removed.Subtasks(), 1)
	assert.Equal(t, subs[1].ID(), removed.Subtasks()[0].ID())

	noop := removed.RemoveSubtask(dom.NewSubtaskID())
	assert.Len(t, noop.Subtasks(), 1)
}

func TestAddTagIdempotent(t *testing.T) {
	work, err := dom.NewTag(dom.TagWork)
	require.NoError(t, err)

	todo := dom.NewTodo(mustTitle(t, "Ship release"))
	tagged := todo.AddTag(work)
	require.Len(t, tagged.Tags(), 1)
	require.True(t, tagged.HasTag(work))

	again := tagged.AddTag(work)
	assert.Len(t, again.Tags(), 1)
	assert.True(t, again.UpdatedAt().Equal(tagged.UpdatedAt()),
		"adding a present tag must not advance updatedAt")
}

func TestRemoveTag(t *testing.T) {
	work, _ := dom.NewTag(dom.TagWork)
	urgent, _ := dom.NewTag(dom.TagUrgent)

	todo := dom.NewTodo(mustTitle(t, "Ship release")).AddTag(work).AddTag(urgent)
	require.Len(t, todo.Tags(), 2)

	removed := todo.RemoveTag(work)
	require.Len(t, removed.Tags(), 1)
	assert.False(t, removed.HasTag(work))
	assert.True(t, removed.HasTag(urgent))

	noop := removed.RemoveTag(work)
	assert.Len(t, noop.Tags(), 1)
}

func TestTransitionsLeaveReceiverUntouched(t *testing.T) {
	work, _ := dom.NewTag(dom.TagWork)
	todo := dom.NewTodo(mustTitle(t, "Ship release")).AddSubtask(mustTitle(t, "Write changelog"))
	sub := todo.Subtasks()[0]

	before := todo.Record()

	_ = todo.ToggleCompletion()
	_ = todo.AddSubtask(mustTitle(t, "Tag release"))
	_ = todo.RemoveSubtask(sub.ID())
	_ = todo.ToggleSubtask(sub.ID())
	_ = todo.AddTag(work)
	_ = todo.UpdateTitle(mustTitle(t, "Renamed"))

	assert.Equal(t, before, todo.Record(), "transition methods must not mutate the receiver")
}

func TestReturnedCollectionsAreCopies(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release")).AddSubtask(mustTitle(t, "Write changelog"))

	subs := todo.Subtasks()
	subs[0] = dom.Subtask{}
	assert.Equal(t, "Write changelog", todo.Subtasks()[0].Title().String())

	work, _ := dom.NewTag(dom.TagWork)
	tagged := todo.AddTag(work)
	tags := tagged.Tags()
	tags[0] = dom.Tag{}
	assert.Equal(t, dom.TagWork, tagged.Tags()[0].Name())
}

func TestUpdatedAtMonotonic(t *testing.T) {
	todo := dom.NewTodo(mustTitle(t, "Ship release"))
	prev := todo.UpdatedAt()
	for i := 0; i < 5; i++ {
		todo = todo.ToggleCompletion()
		require.True(t, todo.UpdatedAt().After(prev))
		prev = todo.UpdatedAt()
	}
	assert.True(t, todo.CreatedAt().Before(todo.UpdatedAt()))
}

func TestRecordRoundTrip(t *testing.T) {
	work, _ := dom.NewTag(dom.TagWork)
	personal, _ := dom.NewTag(dom.TagPersonal)
	desc, err := dom.NewDescription("# Plan\n\nsome **markdown**")
	require.NoError(t, err)

	todo := dom.NewTodo(mustTitle(t, "Ship release")).
		AddSubtask(mustTitle(t, "Write changelog")).
		AddSubtask(mustTitle(t, "Tag release")).
		AddTag(work).
		AddTag(personal).
		UpdateDescription(desc)
	todo = todo.ToggleSubtask(todo.Subtasks()[0].ID())

	got, err := dom.FromRecord(todo.Record())
	require.NoError(t, err)

	assert.Equal(t, todo.Record(), got.Record())
	assert.Equal(t, todo.ID(), got.ID())
	assert.True(t, got.CreatedAt().Equal(todo.CreatedAt()))
	assert.True(t, got.UpdatedAt().Equal(todo.UpdatedAt()))
	require.Len(t, got.Subtasks(), 2)
	assert.Equal(t, todo.ID(), got.Subtasks()[0].ParentID())
	assert.True(t, got.Subtasks()[0].Completed())
}

func TestFromRecordDefaults(t *testing.T) {
	// a record written before descriptions, subtasks and tags existed
	rec := dom.Record{
		ID:        "legacy-1",
		Title:     "Old task",
		CreatedAt: "2021-03-04T05:06:07Z",
		UpdatedAt: "2021-03-04T05:06:07Z",
	}
	todo, err := dom.FromRecord(rec)
	require.NoError(t, err)
	assert.True(t, todo.Description().IsEmpty())
	assert.Empty(t, todo.Subtasks())
	assert.Empty(t, todo.Tags())
}

func TestFromRecordRejectsBadFields(t *testing.T) {
	base := dom.Record{
		ID:        "r1",
		Title:     "ok",
		CreatedAt: "2021-03-04T05:06:07Z",
		UpdatedAt: "2021-03-04T05:06:07Z",
	}

	noID := base
	noID.ID = ""
	_, err := dom.FromRecord(noID)
	assert.Error(t, err)

	badTitle := base
	badTitle.Title = "   "
	_, err = dom.FromRecord(badTitle)
	assert.Error(t, err)

	badTime := base
	badTime.CreatedAt = "yesterday"
	_, err = dom.FromRecord(badTime)
	assert.Error(t, err)

	badTag := base
	badTag.Tags = []string{"chores"}
	_, err = dom.FromRecord(badTag)
	assert.Error(t, err)
}
