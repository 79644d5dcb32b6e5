// Package output provides formatters for CLI and UI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

const (
	// Unchecked and Checked render the completion box.
	Unchecked = "[ ]"
	Checked   = "[x]"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  {BOX} {TEXT}\n" (4-wide right-aligned number, two spaces, checkbox, text)
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(task.Completed), normalizeText(task.Text))
}

// FormatRow formats a task row for the interactive list, without newline.
// Format: "{CURSOR} {BOX} {TEXT}" where CURSOR is ">" for the selected row.
func FormatRow(selected bool, task service.Task) string {
	cursor := " "
	if selected {
		cursor = ">"
	}
	return fmt.Sprintf("%s %s %s", cursor, Checkbox(task.Completed), normalizeText(task.Text))
}

// Checkbox returns the box for a completion flag.
func Checkbox(completed bool) string {
	if completed {
		return Checked
	}
	return Unchecked
}

// normalizeText normalizes a task text for display.
// - Empty or whitespace-only texts become "(untitled)"
// - Newlines are replaced with spaces
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")

	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}
