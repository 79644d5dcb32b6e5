package store

import "todo/internal/service"

// EditBuffer is the staged text of the shared input field. Editing is true
// exactly when TargetID names the task being edited.
type EditBuffer struct {
	Text     string
	TargetID service.ID
	Editing  bool
}

// State is the view state kept in sync with the remote collection.
type State struct {
	Tasks  []service.Task
	Buffer EditBuffer
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	tasks := make([]service.Task, len(s.Tasks))
	copy(tasks, s.Tasks)
	return State{Tasks: tasks, Buffer: s.Buffer}
}

// Find returns the task with the given ID.
func (s *State) Find(id service.ID) (service.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Tasks[i], true
	}
	return service.Task{}, false
}

func (s *State) indexOf(id service.ID) int {
	for i, t := range s.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *State) append(task service.Task) {
	s.Tasks = append(s.Tasks, task)
}

// setText changes only the Text of the task with the given ID.
func (s *State) setText(id service.ID, text string) {
	if i := s.indexOf(id); i >= 0 {
		s.Tasks[i].Text = text
	}
}

func (s *State) replace(task service.Task) {
	if i := s.indexOf(task.ID); i >= 0 {
		s.Tasks[i] = task
	}
}

func (s *State) remove(id service.ID) {
	kept := s.Tasks[:0]
	for _, t := range s.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.Tasks = kept
}

func (s *State) clearBuffer() {
	s.Buffer = EditBuffer{}
}

// clearText empties the staged text and keeps any edit target.
func (s *State) clearText() {
	s.Buffer.Text = ""
}
