// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"todo/internal/service"
)

// ErrNotFound is returned when a task is not in the fake collection.
var ErrNotFound = service.ErrNotFound

// Replace records one ReplaceTask call.
type Replace struct {
	ID    service.ID
	Input service.Input
}

// FakeService is an in-memory implementation of service.Service for testing.
// IDs are assigned sequentially starting at NextID.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	NextID int

	// Error injection for testing
	ListErr    error
	CreateErr  error
	ReplaceErr error
	DeleteErr  error

	// Call counters, incremented even when an error is injected
	ListCalls    int
	CreateCalls  int
	ReplaceCalls int
	DeleteCalls  int

	// Replaces lists every ReplaceTask call in order.
	Replaces []Replace
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{NextID: 1}
}

// AddTask seeds a task directly, bypassing CreateTask.
func (f *FakeService) AddTask(id, text string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{
		ID:        service.ID(id),
		Text:      text,
		Completed: completed,
	})
}

// Stored returns a copy of the fake collection.
func (f *FakeService) Stored() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns the total number of backend calls made.
func (f *FakeService) Calls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ListCalls + f.CreateCalls + f.ReplaceCalls + f.DeleteCalls
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.Input) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}

	task := service.Task{
		ID:        service.ID(strconv.Itoa(f.NextID)),
		Text:      in.Text,
		Completed: in.Completed,
	}
	f.NextID++
	f.tasks = append(f.tasks, task)
	return task, nil
}

// ReplaceTask implements service.Service.
func (f *FakeService) ReplaceTask(ctx context.Context, id service.ID, in service.Input) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReplaceCalls++
	f.Replaces = append(f.Replaces, Replace{ID: id, Input: in})
	if f.ReplaceErr != nil {
		return service.Task{}, f.ReplaceErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = service.Task{ID: id, Text: in.Text, Completed: in.Completed}
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DeleteCalls++
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
