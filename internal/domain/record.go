package domain

import (
	"fmt"
	"time"
)

// SubtaskRecord is the flat persisted form of a Subtask.
type SubtaskRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Record is the flat persisted form of a Todo: string ids, ISO-8601
// timestamps, plain slices. Any backend can store it as-is. Description,
// subtasks and tags are optional so records written before those fields
// existed still load.
type Record struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Completed   bool            `json:"completed"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
	Subtasks    []SubtaskRecord `json:"subtasks,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
}

// Record flattens the Todo for persistence. FromRecord is the exact inverse.
func (t Todo) Record() Record {
	subs := make([]SubtaskRecord, len(t.subtasks))
	for i, s := range t.subtasks {
		subs[i] = SubtaskRecord{
			ID:        s.id.String(),
			Title:     s.title.String(),
			Completed: s.completed,
		}
	}
	tags := make([]string, len(t.tags))
	for i, tag := range t.tags {
		tags[i] = tag.Name()
	}
	return Record{
		ID:          t.id.String(),
		Title:       t.title.String(),
		Description: t.description.String(),
		Completed:   t.completed,
		CreatedAt:   t.createdAt.Format(time.RFC3339Nano),
		UpdatedAt:   t.updatedAt.Format(time.RFC3339Nano),
		Subtasks:    subs,
		Tags:        tags,
	}
}

// FromRecord reconstitutes a Todo from its persisted form. Title and
// Description bounds are re-checked; everything else is taken as stored.
func FromRecord(rec Record) (Todo, error) {
	if rec.ID == "" {
		return Todo{}, fmt.Errorf("record has no id")
	}
	title, err := NewTitle(rec.Title)
	if err != nil {
		return Todo{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	desc, err := NewDescription(rec.Description)
	if err != nil {
		return Todo{}, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, rec.CreatedAt)
	if err != nil {
		return Todo{}, fmt.Errorf("record %s: createdAt: %w", rec.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, rec.UpdatedAt)
	if err != nil {
		return Todo{}, fmt.Errorf("record %s: updatedAt: %w", rec.ID, err)
	}

	id := TodoID(rec.ID)
	subs := make([]Subtask, 0, len(rec.Subtasks))
	for _, sr := range rec.Subtasks {
		st, err := NewTitle(sr.Title)
		if err != nil {
			return Todo{}, fmt.Errorf("record %s: subtask %s: %w", rec.ID, sr.ID, err)
		}
		subs = append(subs, Subtask{
			id:        SubtaskID(sr.ID),
			title:     st,
			completed: sr.Completed,
			parentID:  id,
		})
	}
	tags := make([]Tag, 0, len(rec.Tags))
	for _, name := range rec.Tags {
		tag, err := NewTag(name)
		if err != nil {
			return Todo{}, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		tags = append(tags, tag)
	}

	return Todo{
		id:          id,
		title:       title,
		description: desc,
		completed:   rec.Completed,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		subtasks:    subs,
		tags:        tags,
	}, nil
}
