package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/output"
	"craftdoist/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	project     string
	description string
	due         string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "craftdoist add [--project <name-or-id>] [--description <text>] [--due <YYYY-MM-DD>] <content...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.project, "p", "", "")
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	content := strings.Join(args, " ")
	if strings.TrimSpace(content) == "" {
		fmt.Fprintln(errOut, "error: content required")
		return exitcode.UserError
	}
	if c.due != "" {
		if _, err := time.Parse(time.DateOnly, c.due); err != nil {
			fmt.Fprintf(errOut, "error: invalid due date: %s (want YYYY-MM-DD)\n", c.due)
			return exitcode.UserError
		}
	}

	svc, err := sess.Service()
	if err != nil {
		return report(errOut, err)
	}

	nt := service.NewTask{Content: content, Description: c.description, DueDate: c.due}
	if c.project != "" {
		p, err := ResolveProject(ctx, svc, c.project)
		if err != nil {
			return report(errOut, err)
		}
		nt.ProjectID = p.ID
	}

	task, err := svc.CreateTask(ctx, nt)
	if err != nil {
		return report(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
