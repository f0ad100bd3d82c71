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

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"close"} }
func (c *DoneCmd) Synopsis() string  { return "Complete a task" }
func (c *DoneCmd) Usage() string     { return "craftdoist done [common flags] <task-id-or-link>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	svc, err := sess.Service()
	if err != nil {
		return report(errOut, err)
	}

	task, err := svc.Task(ctx, id)
	if err != nil {
		return report(errOut, err)
	}
	if task.Completed {
		if !cfg.Quiet {
			fmt.Fprintln(out, "already completed")
		}
		return exitcode.Success
	}

	if err := svc.CloseTask(ctx, id); err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		if task.Due != nil && task.Due.Recurring {
			fmt.Fprintln(out, "ok (recurring, moved to next occurrence)")
		} else {
			fmt.Fprintln(out, "ok")
		}
	}
	return exitcode.Success
}
