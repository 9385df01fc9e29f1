package domain

import (
	"strings"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
)

// Tag names form a closed set; anything else fails construction.
const (
	TagWork     = "work"
	TagPersonal = "personal"
	TagUrgent   = "urgent"
)

var tagNames = []string{TagWork, TagPersonal, TagUrgent}

// Tag is a classification label drawn from the closed set above. Equality is
// by name.
type Tag struct {
	name string
}

func NewTag(name string) (Tag, error) {
	for _, v := range tagNames {
		if name == v {
			return Tag{name: name}, nil
		}
	}
	return Tag{}, apperr.Validationf("unknown tag %q, allowed tags: %s", name, strings.Join(tagNames, ", "))
}

func (t Tag) Name() string { return t.name }

func (t Tag) Equals(other Tag) bool { return t.name == other.name }

// AllowedTags returns the closed set of tag names.
func AllowedTags() []string {
	out := make([]string, len(tagNames))
	copy(out, tagNames)
	return out
}
