// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecode indicates a response body did not have the expected task shape.
var ErrDecode = errors.New("unexpected response shape")

// ErrNotFound indicates the remote store has no task with the given ID.
var ErrNotFound = errors.New("not found")

// ID is an opaque task identifier assigned by the remote store.
// The store may emit it as a JSON number or a JSON string; the textual
// form is kept verbatim and used as-is in request paths.
type ID string

// UnmarshalJSON accepts a JSON number or a non-empty JSON string.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: id: %v", ErrDecode, err)
		}
		if s == "" {
			return fmt.Errorf("%w: id is empty", ErrDecode)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil || n == "" {
		return fmt.Errorf("%w: id must be a number or string, got %s", ErrDecode, data)
	}
	*id = ID(n)
	return nil
}

// MarshalJSON emits numeric IDs as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.isNumber() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) isNumber() bool {
	if id == "" {
		return false
	}
	c := id[0]
	if c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(id))
}

// String returns the identifier as it appears in request paths.
func (id ID) String() string {
	return string(id)
}

// Task represents a single task item.
type Task struct {
	ID        ID     `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Input is the request body for create and replace calls.
type Input struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// wireTask mirrors Task with pointer fields so missing keys can be told
// apart from zero values.
type wireTask struct {
	ID        *ID     `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// UnmarshalJSON decodes a task and rejects payloads missing any field.
func (t *Task) UnmarshalJSON(data []byte) error {
	var w wireTask
	if err := json.Unmarshal(data, &w); err != nil {
		if errors.Is(err, ErrDecode) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	switch {
	case w.ID == nil:
		return fmt.Errorf("%w: task is missing \"id\"", ErrDecode)
	case w.Text == nil:
		return fmt.Errorf("%w: task %s is missing \"text\"", ErrDecode, *w.ID)
	case w.Completed == nil:
		return fmt.Errorf("%w: task %s is missing \"completed\"", ErrDecode, *w.ID)
	}
	*t = Task{ID: *w.ID, Text: *w.Text, Completed: *w.Completed}
	return nil
}
