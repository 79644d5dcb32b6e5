// Package commands implements the todo subcommands and the registry the
// dispatcher looks them up in.
package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/service"
)

// Command is one CLI subcommand.
type Command interface {
	// Name is the primary command name; Aliases are the other names it
	// answers to.
	Name() string
	Aliases() []string

	// Synopsis and Usage feed the help output.
	Synopsis() string
	Usage() string

	// NeedsBackend reports whether Run needs a task store.
	// help and version return false.
	NeedsBackend() bool

	// RegisterFlags adds command-specific flags next to the common ones.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns the exit code. cfg is always set, cfg.Logger may
	// be nil in tests, and svc is nil unless NeedsBackend returns true.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
