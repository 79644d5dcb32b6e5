package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd replaces the text of a task.
type EditCmd struct{}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change the text of a task" }
func (c *EditCmd) Usage() string      { return "todo edit <ref> <text...>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, "error: task reference required")
		return exitcode.UserError
	}
	text := strings.Join(args[1:], " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(errOut, "error: text required")
		return exitcode.UserError
	}

	client := newStore(cfg, svc)
	task, code := loadTask(ctx, client, args[:1], errOut)
	if code != exitcode.Success {
		return code
	}

	if err := client.BeginEdit(task.ID); err != nil {
		return backendError(errOut, err)
	}
	client.SetBufferText(text)
	if err := client.Submit(ctx); err != nil {
		return backendError(errOut, err)
	}
	return ok(cfg, out)
}
