package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
)

// DescriptionMaxLen is the maximum length of a description, in runes.
const DescriptionMaxLen = 10000

// Description holds the long-form markdown source of a todo. Unlike Title it
// is checked on raw length only: empty and whitespace-only values are valid.
type Description struct {
	value string
}

func NewDescription(raw string) (Description, error) {
	if utf8.RuneCountInString(raw) > DescriptionMaxLen {
		return Description{}, apperr.Validationf("description must be at most %d characters", DescriptionMaxLen)
	}
	return Description{value: raw}, nil
}

func (d Description) String() string { return d.value }

// IsEmpty reports whether the description has no visible content.
func (d Description) IsEmpty() bool { return strings.TrimSpace(d.value) == "" }

func (d Description) HasContent() bool { return !d.IsEmpty() }
