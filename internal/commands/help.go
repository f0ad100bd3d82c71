package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct {
	// Registry lists the commands to describe; nil means DefaultRegistry.
	Registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "craftdoist help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	reg := c.Registry
	if reg == nil {
		reg = DefaultRegistry
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  craftdoist                 Import all open tasks")
	for _, cmd := range reg.All() {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
	}

	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range reg.All() {
		line := fmt.Sprintf("  %-10s %s", cmd.Name(), cmd.Synopsis())
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			line += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprint(out, flagsHelp)
	return exitcode.Success
}

const flagsHelp = `
Import flags:
  --today                 Only tasks due today or overdue
  --filter <query>        Filter query (Todoist backend only)
  --project <name-or-id>  Only tasks of one project
  --group <mode>          projectAndSection, projectOnly, sectionOnly or none
  --sort <key>            order, priority or content
  --format <fmt>          markdown, json or pretty
  --flat                  One line per task, no grouping or nesting
  --unlinked              Omit deep links on task lines
  --exclude <ids>         Comma separated task IDs to leave out
  --skip-existing <file>  Leave out tasks already linked from a document

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
