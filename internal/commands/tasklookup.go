package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/store"
)

// newStore wraps svc in a store client logging through cfg.Logger.
func newStore(cfg *config.Config, svc service.Service) *store.Client {
	if cfg.Logger == nil {
		return store.New(svc, logging.Discard())
	}
	return store.New(svc, cfg.Logger)
}

// findTask resolves ref against the loaded list.
func findTask(tasks []service.Task, ref TaskRef) (service.Task, error) {
	if ref.ID != "" {
		for _, t := range tasks {
			if t.ID == ref.ID {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("task not found: %s", ref)
	}
	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return tasks[ref.Num-1], nil
}

// loadTask parses the reference in args, loads the list and resolves the
// task. On failure it prints the error and returns a non-zero exit code.
func loadTask(ctx context.Context, client *store.Client, args []string, errOut io.Writer) (service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}

	if err := client.ListTasks(ctx); err != nil {
		return service.Task{}, backendError(errOut, err)
	}

	task, err := findTask(client.Tasks(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError
	}
	return task, exitcode.Success
}

// backendError prints a failed store call and returns its exit code.
func backendError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, store.ErrEmptyText):
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// ok prints the success marker unless quiet.
func ok(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
