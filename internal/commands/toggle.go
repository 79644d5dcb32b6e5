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
	Register(&ToggleCmd{})
}

// ToggleCmd flips the completion state of a task.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Mark a task completed or active" }
func (c *ToggleCmd) Usage() string      { return "todo toggle <ref>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	client := newStore(cfg, svc)
	task, code := loadTask(ctx, client, args, errOut)
	if code != exitcode.Success {
		return code
	}

	updated, err := client.ToggleTask(ctx, task.ID)
	if err != nil {
		return backendError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %s\n", output.Checkbox(updated.Completed))
	}
	return exitcode.Success
}
