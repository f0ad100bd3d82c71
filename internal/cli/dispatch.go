// Package cli parses the command line and runs the selected command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"craftdoist/internal/commands"
	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

// defaultCommand runs when no command is named.
const defaultCommand = "import"

// ServiceFactory builds the task service client from stored credentials.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher resolves a command, parses its flags, prepares config and
// session, then runs it.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a dispatcher over registry. factory may be nil when
// only commands without auth are run.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{registry: registry, factory: factory}
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run dispatches args and returns the process exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := defaultCommand
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	// Flags belong after the command name.
	cmd, ok := d.registry.Find(name)
	if !ok || strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	var common commonFlags
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	sess := service.NewSession()
	if cmd.NeedsAuth() {
		if code := d.attach(ctx, cfg, sess, errOut); code != exitcode.Success {
			return code
		}
	}

	return cmd.Run(ctx, cfg, sess, positional, out, errOut)
}

// attach resumes sess with a client built from stored credentials.
func (d *Dispatcher) attach(ctx context.Context, cfg *config.Config, sess *service.Session, errOut io.Writer) int {
	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.AuthError
	}
	svc, err := d.factory(ctx, cfg)
	switch {
	case errors.Is(err, config.ErrNoToken), errors.Is(err, os.ErrNotExist):
		fmt.Fprintln(errOut, "error: not logged in (run: craftdoist login)")
		return exitcode.AuthError
	case err != nil:
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	sess.Resume(svc)
	return exitcode.Success
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	const undefined = "flag provided but not defined: "
	if msg := err.Error(); strings.HasPrefix(msg, undefined) {
		return "unknown flag: " + strings.TrimPrefix(msg, undefined)
	}
	return err.Error()
}
