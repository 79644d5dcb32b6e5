package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd prints every task with its row number.
type ListCmd struct {
	activeOnly bool
}

// SetActiveOnly hides completed tasks (for testing).
func (c *ListCmd) SetActiveOnly(v bool) {
	c.activeOnly = v
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todo list [--active]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.activeOnly, "active", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	client := newStore(cfg, svc)
	if err := client.ListTasks(ctx); err != nil {
		return backendError(errOut, err)
	}

	// Row numbers always count every task so they stay valid references.
	printed := 0
	for i, task := range client.Tasks() {
		if c.activeOnly && task.Completed {
			continue
		}
		output.FormatTask(out, i+1, task)
		printed++
	}

	if printed == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
