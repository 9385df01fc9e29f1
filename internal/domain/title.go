package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/aki-motty/todo-copilot-sub000/internal/apperr"
)

// TitleMaxLen is the maximum length of a todo or subtask title, in runes,
// after trimming surrounding whitespace.
const TitleMaxLen = 500

// Title is a validated, trimmed todo or subtask title. A Title can only be
// obtained through NewTitle, so holding one means the bounds hold.
type Title struct {
	value string
}

// NewTitle trims raw and validates the result. Input is never truncated:
// out-of-bounds input fails instead.
func NewTitle(raw string) (Title, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return Title{}, apperr.Validationf("title must not be empty")
	}
	if utf8.RuneCountInString(v) > TitleMaxLen {
		return Title{}, apperr.Validationf("title must be at most %d characters", TitleMaxLen)
	}
	return Title{value: v}, nil
}

func (t Title) String() string { return t.value }

func (t Title) Equals(other Title) bool { return t.value == other.value }
