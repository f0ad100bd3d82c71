package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/output"
	"craftdoist/internal/render"
	"craftdoist/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show a task and whether it is completed or recurring" }
func (c *ShowCmd) Usage() string     { return "craftdoist show [common flags] <task-id-or-link>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
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

	output.FormatTask(out, task)
	if desc := render.StripDescription(task.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(out, "            %s\n", line)
		}
	}
	return exitcode.Success
}
