// Package store keeps the local task list in sync with the remote collection.
//
// Every mutation waits for the store's response before touching local
// state; a failed call is logged and leaves the state as it was. Calls that
// address the same task are serialized, so a toggle racing a delete of the
// same row is applied in the order the user issued them.
package store

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"todo/internal/service"
)

var (
	// ErrEmptyText is returned, without any network call, for blank text.
	ErrEmptyText = errors.New("text required")

	// ErrTaskNotFound is returned when an ID is not in the local list.
	ErrTaskNotFound = errors.New("task not found")
)

// createKey serializes creates; store IDs are never empty.
const createKey = ""

// Client is the task store client shared by the commands and the UI.
// It is safe for concurrent use.
type Client struct {
	svc   service.Service
	log   logrus.FieldLogger
	locks *keyedLock

	mu    sync.Mutex
	state State
}

// New creates a client over svc with an empty list.
func New(svc service.Service, logger logrus.FieldLogger) *Client {
	return &Client{
		svc:   svc,
		log:   logger.WithField("component", "task_store"),
		locks: newKeyedLock(),
		state: State{Tasks: []service.Task{}},
	}
}

// Snapshot returns a copy of the current state.
func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Tasks returns a copy of the current list.
func (c *Client) Tasks() []service.Task {
	return c.Snapshot().Tasks
}

// ListTasks replaces the local list with the remote collection.
func (c *Client) ListTasks(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.report("list", "", err)
		return err
	}

	c.mu.Lock()
	c.state.Tasks = tasks
	c.mu.Unlock()

	c.log.WithField("count", len(tasks)).Debug("tasks loaded")
	return nil
}

// CreateTask sends a new, not completed task and appends the store's copy.
func (c *Client) CreateTask(ctx context.Context, text string) (service.Task, error) {
	if strings.TrimSpace(text) == "" {
		return service.Task{}, ErrEmptyText
	}

	unlock := c.locks.Lock(createKey)
	defer unlock()

	task, err := c.svc.CreateTask(ctx, service.Input{Text: text, Completed: false})
	if err != nil {
		c.report("create", "", err)
		return service.Task{}, err
	}

	c.mu.Lock()
	c.state.append(task)
	c.state.clearText()
	c.mu.Unlock()

	c.log.WithField("task_id", task.ID).Debug("task created")
	return task, nil
}

// ReplaceTask sends a full replacement with the new text. The remote copy
// is always sent with completed=false; locally only Text changes.
func (c *Client) ReplaceTask(ctx context.Context, id service.ID, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyText
	}

	unlock := c.locks.Lock(id.String())
	defer unlock()

	// TODO: send the task's current Completed once the reset-on-edit
	// behaviour is confirmed to be unintended.
	if _, err := c.svc.ReplaceTask(ctx, id, service.Input{Text: text, Completed: false}); err != nil {
		c.report("replace", id, err)
		return err
	}

	c.mu.Lock()
	c.state.setText(id, text)
	c.state.clearBuffer()
	c.mu.Unlock()

	c.log.WithField("task_id", id).Debug("task replaced")
	return nil
}

// ToggleTask inverts Completed on the store, then locally.
func (c *Client) ToggleTask(ctx context.Context, id service.ID) (service.Task, error) {
	unlock := c.locks.Lock(id.String())
	defer unlock()

	c.mu.Lock()
	task, ok := c.state.Find(id)
	c.mu.Unlock()
	if !ok {
		return service.Task{}, ErrTaskNotFound
	}

	updated := task
	updated.Completed = !task.Completed
	in := service.Input{Text: updated.Text, Completed: updated.Completed}
	if _, err := c.svc.ReplaceTask(ctx, id, in); err != nil {
		c.report("toggle", id, err)
		return service.Task{}, err
	}

	c.mu.Lock()
	c.state.replace(updated)
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{"task_id": id, "completed": updated.Completed}).Debug("task toggled")
	return updated, nil
}

// DeleteTask deletes the task on the store, then drops it locally.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	unlock := c.locks.Lock(id.String())
	defer unlock()

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.report("delete", id, err)
		return err
	}

	c.mu.Lock()
	c.state.remove(id)
	if c.state.Buffer.Editing && c.state.Buffer.TargetID == id {
		c.state.clearBuffer()
	}
	c.mu.Unlock()

	c.log.WithField("task_id", id).Debug("task deleted")
	return nil
}

// BeginEdit stages the task's text for editing.
func (c *Client) BeginEdit(id service.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.state.Find(id)
	if !ok {
		return ErrTaskNotFound
	}
	c.state.Buffer = EditBuffer{Text: task.Text, TargetID: id, Editing: true}
	return nil
}

// CancelEdit leaves editing mode and empties the buffer.
func (c *Client) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.clearBuffer()
}

// SetBufferText updates the staged text.
func (c *Client) SetBufferText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Buffer.Text = text
}

// Submit creates a task from the buffer, or replaces the staged task when
// editing.
func (c *Client) Submit(ctx context.Context) error {
	c.mu.Lock()
	buf := c.state.Buffer
	c.mu.Unlock()

	if buf.Editing {
		return c.ReplaceTask(ctx, buf.TargetID, buf.Text)
	}
	_, err := c.CreateTask(ctx, buf.Text)
	return err
}

// report logs a failed call. The caller still gets the error.
func (c *Client) report(op string, id service.ID, err error) {
	entry := c.log.WithField("op", op)
	if id != "" {
		entry = entry.WithField("task_id", id)
	}
	entry.WithError(err).Error("task store call failed")
}
