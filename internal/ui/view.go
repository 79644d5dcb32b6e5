package ui

import (
	"strings"

	"todo/internal/output"
)

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		selected := i == m.cursor && !m.input.Focused()
		b.WriteString(output.FormatRow(selected, t))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	if m.input.Focused() {
		if m.buffer.Editing {
			return "enter update • esc cancel edit"
		}
		return "enter add • esc back to list"
	}
	return "↑/k ↓/j move • a add • space toggle • e edit • d delete • r reload • q quit"
}
