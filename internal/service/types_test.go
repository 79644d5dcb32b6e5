package service

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTaskUnmarshal_NumericID(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":5,"text":"Buy milk","completed":false}`), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "5" {
		t.Errorf("expected ID 5, got %q", task.ID)
	}
	if task.Text != "Buy milk" {
		t.Errorf("expected text 'Buy milk', got %q", task.Text)
	}
	if task.Completed {
		t.Error("expected Completed to be false")
	}
}

func TestTaskUnmarshal_StringID(t *testing.T) {
	var task Task
	if err := json.Unmarshal([]byte(`{"id":"a1f3","text":"A","completed":true}`), &task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != "a1f3" {
		t.Errorf("expected ID a1f3, got %q", task.ID)
	}
	if !task.Completed {
		t.Error("expected Completed to be true")
	}
}

func TestTaskUnmarshal_MissingFields(t *testing.T) {
	bodies := map[string]string{
		"missing id":        `{"text":"A","completed":false}`,
		"missing text":      `{"id":1,"completed":false}`,
		"missing completed": `{"id":1,"text":"A"}`,
		"null id":           `{"id":null,"text":"A","completed":false}`,
		"empty id":          `{"id":"","text":"A","completed":false}`,
		"bool id":           `{"id":true,"text":"A","completed":false}`,
		"numeric text":      `{"id":1,"text":7,"completed":false}`,
		"not an object":     `[1,2,3]`,
	}
	for name, body := range bodies {
		var task Task
		err := json.Unmarshal([]byte(body), &task)
		if !errors.Is(err, ErrDecode) {
			t.Errorf("%s: expected ErrDecode, got %v", name, err)
		}
	}
}

func TestIDMarshal(t *testing.T) {
	data, err := json.Marshal(Task{ID: "12", Text: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"id":12,"text":"x","completed":false}` {
		t.Errorf("unexpected encoding: %s", data)
	}

	data, err = json.Marshal(ID("007"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"007"` {
		t.Errorf("expected quoted id, got %s", data)
	}
}
