package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                       Open the interactive task list
  todo ui [common flags] [--metrics <addr>]  Open the interactive task list
  todo list [common flags] [--active]        Print tasks with row numbers
  todo add [common flags] <text...>
  todo create [common flags] <text...>
  todo edit [common flags] <ref> <text...>
  todo toggle [common flags] <ref>
  todo done [common flags] <ref>
  todo rm [common flags] <ref>
  todo help
  todo version

Task references:
  <n>              Row number as printed by list
  @<id>            Identifier assigned by the task store

Use -- before text that starts with a dash: todo add -- -call mom

Common flags:
  --config <dir>   Override config directory
  --url <base>     Task store base URL (default http://localhost:5000)
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
