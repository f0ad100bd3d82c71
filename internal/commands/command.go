// Package commands implements the craftdoist commands. Each command registers
// itself with DefaultRegistry from init.
package commands

import (
	"context"
	"flag"
	"io"

	"craftdoist/internal/config"
	"craftdoist/internal/service"
)

// Command is a subcommand of the CLI.
type Command interface {
	Name() string
	Aliases() []string

	// Synopsis and Usage are shown by help.
	Synopsis() string
	Usage() string

	// NeedsAuth reports whether the dispatcher attaches a client from stored
	// credentials before Run. Without it sess starts logged out.
	NeedsAuth() bool

	// RegisterFlags adds the command's flags next to the common ones. It is
	// called once per run, so flag fields start from their defaults.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command with the positional args left after flag
	// parsing and returns an exit code from package exitcode.
	Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int
}
