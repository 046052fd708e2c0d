// internal/task/task.go
//
// Task is the only entity in the list. The JSON tags are the on-disk shape
// of a snapshot record, so they must not change.

package task

import "strings"

// Task is a single to-do item.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Prompt asks the user for replacement text. It receives the current text
// and returns the new text, or ok=false when the user cancelled.
type Prompt func(current string) (text string, ok bool)

// normalizeText trims surrounding whitespace and reports whether anything
// is left.
func normalizeText(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	return trimmed, trimmed != ""
}
