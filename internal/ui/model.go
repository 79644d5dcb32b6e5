// Package ui renders the interactive task list.
//
// The model never changes tasks itself: every action goes through
// store.Client inside a tea.Cmd, and the list is re-read from the client's
// snapshot when the command reports back.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/service"
	"todo/internal/store"
)

const (
	opLoad   = "load"
	opAdd    = "add"
	opUpdate = "update"
	opToggle = "toggle"
	opDelete = "delete"

	placeholderAdd  = "Add a new task"
	placeholderEdit = "Edit your task"
)

// doneMsg reports a finished store call.
type doneMsg struct {
	op  string
	err error
}

// Model is the bubbletea model of the task list screen.
type Model struct {
	ctx     context.Context
	client  *store.Client
	tasks   []service.Task
	buffer  store.EditBuffer
	cursor  int
	input   textinput.Model
	status  string
	pending int
}

// New returns a model over client. Nothing is loaded until Init runs.
func New(ctx context.Context, client *store.Client) Model {
	ti := textinput.New()
	ti.Placeholder = placeholderAdd
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		ctx:     ctx,
		client:  client,
		input:   ti,
		status:  "Loading tasks...",
		pending: 1, // the load returned by Init
	}
}

// Run starts the full-screen program and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, client *store.Client, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	program := tea.NewProgram(New(ctx, client), opts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init loads the collection once. New already counts this load as pending.
func (m Model) Init() tea.Cmd {
	return m.run(opLoad, m.client.ListTasks)
}

// call counts fn as pending and runs it.
func (m *Model) call(op string, fn func(context.Context) error) tea.Cmd {
	m.pending++
	return m.run(op, fn)
}

// run executes fn off the UI goroutine and reports back with a doneMsg.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return doneMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if w := msg.Width - 20; w > 10 {
			m.input.Width = w
		}
		return m, nil
	case doneMsg:
		return m.finish(msg), nil
	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateList(msg.String())
	}

	// Cursor blinks.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// finish re-reads the client state after a store call.
func (m Model) finish(msg doneMsg) Model {
	if m.pending > 0 {
		m.pending--
	}

	snap := m.client.Snapshot()
	m.tasks = snap.Tasks
	m.cursor = clampCursor(m.cursor, len(m.tasks))

	submitted := msg.err == nil && (msg.op == opAdd || msg.op == opUpdate)
	editEnded := m.buffer.Editing && !snap.Buffer.Editing
	if submitted || editEnded {
		m.input.SetValue(snap.Buffer.Text)
	}
	m.buffer = snap.Buffer
	m.input.Placeholder = placeholderFor(m.buffer.Editing)

	m.status = statusFor(msg, len(m.tasks))
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.client.SetBufferText(m.input.Value())
		op := opAdd
		if m.buffer.Editing {
			op = opUpdate
		}
		cmd := m.call(op, m.client.Submit)
		return m, cmd
	case "esc":
		if m.buffer.Editing {
			m.client.CancelEdit()
			m.buffer = store.EditBuffer{}
			m.input.SetValue("")
			m.input.Placeholder = placeholderAdd
			m.status = "Edit cancelled"
		}
		m.input.Blur()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case "a", "i", "tab":
		m.input.Focus()
	case "r":
		cmd := m.call(opLoad, m.client.ListTasks)
		return m, cmd
	case " ", "x":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.call(opToggle, func(ctx context.Context) error {
			_, err := m.client.ToggleTask(ctx, task.ID)
			return err
		})
		return m, cmd
	case "d":
		task, ok := m.selected()
		if !ok {
			return m, nil
		}
		cmd := m.call(opDelete, func(ctx context.Context) error {
			return m.client.DeleteTask(ctx, task.ID)
		})
		return m, cmd
	case "e":
		task, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		if err := m.client.BeginEdit(task.ID); err != nil {
			m.status = fmt.Sprintf("edit failed: %v", err)
			return m, nil
		}
		m.buffer = m.client.Snapshot().Buffer
		m.input.SetValue(m.buffer.Text)
		m.input.CursorEnd()
		m.input.Placeholder = placeholderEdit
		m.input.Focus()
		m.status = "Editing task; enter to update, esc to cancel"
	}
	return m, nil
}

func (m Model) selected() (service.Task, bool) {
	if len(m.tasks) == 0 {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func statusFor(msg doneMsg, count int) string {
	if errors.Is(msg.err, store.ErrEmptyText) {
		return "Task text cannot be empty"
	}
	if msg.err != nil {
		return fmt.Sprintf("%s failed: %v", msg.op, msg.err)
	}
	switch msg.op {
	case opLoad:
		return fmt.Sprintf("Loaded %d tasks", count)
	case opAdd:
		return "Added task"
	case opUpdate:
		return "Updated task"
	case opToggle:
		return "Toggled task"
	case opDelete:
		return "Deleted task"
	}
	return ""
}

func placeholderFor(editing bool) string {
	if editing {
		return placeholderEdit
	}
	return placeholderAdd
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString("Todo List")
	b.WriteString("\n\n")

	b.WriteString(m.input.View())
	if m.buffer.Editing {
		b.WriteString("  [Update]")
	} else {
		b.WriteString("  [Add]")
	}
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		b.WriteString("No tasks yet. Press 'a' to add one.\n")
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	if m.pending > 0 {
		b.WriteString("working... ")
	}
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}
