package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the craftdoist version and, unless quiet, the backend
// tasks are read from.
type VersionCmd struct{}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "craftdoist version" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	if cfg.Quiet {
		fmt.Fprintln(out, Version)
		return exitcode.Success
	}
	fmt.Fprintf(out, "craftdoist %s (backend: %s)\n", Version, cfg.Settings.Backend)
	return exitcode.Success
}
