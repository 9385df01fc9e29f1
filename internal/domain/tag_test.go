package domain_test

import (
	"strings"
	"testing"

	dom "github.com/aki-motty/todo-copilot-sub000/internal/domain"
)

func TestNewTag(t *testing.T) {
	for _, name := range dom.AllowedTags() {
		tag, err := dom.NewTag(name)
		if err != nil {
			t.Fatalf("NewTag(%q): %v", name, err)
		}
		if tag.Name() != name {
			t.Errorf("Name() = %q, want %q", tag.Name(), name)
		}
	}

	for _, name := range []string{"", "Work", "home", "urgent "} {
		_, err := dom.NewTag(name)
		if err == nil {
			t.Errorf("NewTag(%q) succeeded, want error", name)
		}
	}
}

func TestNewTagErrorListsAllowedSet(t *testing.T) {
	_, err := dom.NewTag("chores")
	if err == nil {
		t.Fatal("want error")
	}
	for _, name := range dom.AllowedTags() {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention allowed tag %q", err, name)
		}
	}
}

func TestTagEquality(t *testing.T) {
	a, _ := dom.NewTag(dom.TagWork)
	b, _ := dom.NewTag(dom.TagWork)
	c, _ := dom.NewTag(dom.TagUrgent)
	if !a.Equals(b) {
		t.Error("tags with the same name should be equal")
	}
	if a.Equals(c) {
		t.Error("tags with different names should not be equal")
	}
}
