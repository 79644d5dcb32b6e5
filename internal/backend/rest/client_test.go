package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/api/googleapi"

	"todo/internal/config"
	"todo/internal/service"
)

// fakeCollection is a tiny json-server lookalike serving /tasks.
type fakeCollection struct {
	mu       sync.Mutex
	nextID   int
	tasks    []map[string]any
	requests []*http.Request
	bodies   []string
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{nextID: 1}
}

func (f *fakeCollection) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tasks", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, "")
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.tasks)
	})
	mux.HandleFunc("POST /tasks", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad create body: %v", err)
		}
		raw, _ := json.Marshal(in)
		f.record(r, string(raw))
		f.mu.Lock()
		defer f.mu.Unlock()
		in["id"] = f.nextID
		f.nextID++
		f.tasks = append(f.tasks, in)
		writeJSON(w, http.StatusCreated, in)
	})
	mux.HandleFunc("PUT /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("bad replace body: %v", err)
		}
		raw, _ := json.Marshal(in)
		f.record(r, string(raw))
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, task := range f.tasks {
			if jsonID(task["id"]) == r.PathValue("id") {
				in["id"] = task["id"]
				f.tasks[i] = in
				writeJSON(w, http.StatusOK, in)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{})
	})
	mux.HandleFunc("DELETE /tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r, "")
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, task := range f.tasks {
			if jsonID(task["id"]) == r.PathValue("id") {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{})
	})
	return mux
}

func (f *fakeCollection) record(r *http.Request, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r)
	f.bodies = append(f.bodies, body)
}

func (f *fakeCollection) last() (*http.Request, string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.requests)
	return f.requests[n-1], f.bodies[n-1]
}

func jsonID(v any) string {
	data, _ := json.Marshal(v)
	return strings.Trim(string(data), `"`)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewWithHTTPClient(srv.URL, srv.Client(), nil)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestCreateTask(t *testing.T) {
	fc := newFakeCollection()
	fc.nextID = 5
	c := newTestClient(t, fc.handler(t))

	task, err := c.CreateTask(context.Background(), service.Input{Text: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != "5" || task.Text != "Buy milk" || task.Completed {
		t.Errorf("unexpected task %+v", task)
	}

	req, body := fc.last()
	if req.Method != http.MethodPost || req.URL.Path != "/tasks" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	if body != `{"completed":false,"text":"Buy milk"}` {
		t.Errorf("unexpected body %s", body)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("expected json content type, got %q", req.Header.Get("Content-Type"))
	}
	if req.Header.Get(RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
}

func TestListTasks(t *testing.T) {
	fc := newFakeCollection()
	c := newTestClient(t, fc.handler(t))
	ctx := context.Background()

	tasks, err := c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}

	for _, text := range []string{"A", "B", "C"} {
		if _, err := c.CreateTask(ctx, service.Input{Text: text}); err != nil {
			t.Fatalf("create %s: %v", text, err)
		}
	}

	tasks, err = c.ListTasks(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"A", "B", "C"} {
		if tasks[i].Text != want {
			t.Errorf("task %d: expected %q, got %q", i, want, tasks[i].Text)
		}
	}
}

func TestReplaceTask(t *testing.T) {
	fc := newFakeCollection()
	c := newTestClient(t, fc.handler(t))
	ctx := context.Background()

	created, err := c.CreateTask(ctx, service.Input{Text: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err := c.ReplaceTask(ctx, created.ID, service.Input{Text: "A", Completed: true})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if task.ID != created.ID || !task.Completed {
		t.Errorf("unexpected task %+v", task)
	}

	req, body := fc.last()
	if req.Method != http.MethodPut || req.URL.Path != "/tasks/1" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	if body != `{"completed":true,"text":"A"}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestDeleteTask(t *testing.T) {
	fc := newFakeCollection()
	c := newTestClient(t, fc.handler(t))
	ctx := context.Background()

	created, err := c.CreateTask(ctx, service.Input{Text: "A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := c.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	req, _ := fc.last()
	if req.Method != http.MethodDelete || req.URL.Path != "/tasks/1" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	if req.Header.Get("Content-Type") != "" {
		t.Errorf("delete should have no content type, got %q", req.Header.Get("Content-Type"))
	}

	err = c.DeleteTask(ctx, created.ID)
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStringIDIsEscapedInPath(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, map[string]any{})
	}))

	if err := c.DeleteTask(context.Background(), "a b/c"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if gotPath != "/tasks/a%20b%2Fc" {
		t.Errorf("unexpected escaped path %q", gotPath)
	}
}

func TestBaseURLWithPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, []any{})
	}))
	defer srv.Close()

	c, err := NewWithHTTPClient(srv.URL+"/api", srv.Client(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.ListTasks(context.Background()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotPath != "/api/tasks" {
		t.Errorf("expected /api/tasks, got %q", gotPath)
	}
}

func TestStatusError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := c.ListTasks(context.Background())
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected googleapi.Error, got %v", err)
	}
	if apiErr.Code != http.StatusInternalServerError {
		t.Errorf("expected code 500, got %d", apiErr.Code)
	}
}

func TestDecodeError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]any{"text": "no id", "completed": false})
	}))

	_, err := c.CreateTask(context.Background(), service.Input{Text: "no id"})
	if !errors.Is(err, service.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestDecodeError_NotAnArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"tasks": []any{}})
	}))

	_, err := c.ListTasks(context.Background())
	if !errors.Is(err, service.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer close(release)
	c.timeout = 50 * time.Millisecond

	_, err := c.ListTasks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "request timed out") {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"localhost:5000", "ftp://example.com", "http://", "://bad"} {
		_, err := New(&config.Config{BaseURL: raw})
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("%q: expected ErrInvalidConfig, got %v", raw, err)
		}
	}
}

func TestMetricsCountRequests(t *testing.T) {
	fc := newFakeCollection()
	srv := httptest.NewServer(fc.handler(t))
	defer srv.Close()

	c, err := New(&config.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	ctx := context.Background()
	if _, err := c.ListTasks(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := c.ListTasks(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := c.CreateTask(ctx, service.Input{Text: "A"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := testutil.ToFloat64(c.metrics.requests.WithLabelValues("200", "get")); got != 2 {
		t.Errorf("expected 2 GET requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.metrics.requests.WithLabelValues("201", "post")); got != 1 {
		t.Errorf("expected 1 POST request, got %v", got)
	}

	families, err := c.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("expected gathered metric families")
	}
}
