// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for the remote task collection.
// Commands and the UI never talk HTTP directly.
type Service interface {
	// ListTasks returns the whole collection in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its store-assigned ID.
	CreateTask(ctx context.Context, in Input) (Task, error)

	// ReplaceTask overwrites the task with the given ID.
	ReplaceTask(ctx context.Context, id ID, in Input) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error
}
