package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/output"
	"craftdoist/internal/service"
)

func init() {
	Register(&ProjectsCmd{})
}

// ProjectsCmd implements the projects command.
type ProjectsCmd struct{}

func (c *ProjectsCmd) Name() string      { return "projects" }
func (c *ProjectsCmd) Aliases() []string { return []string{"lists"} }
func (c *ProjectsCmd) Synopsis() string  { return "List projects and their sections" }
func (c *ProjectsCmd) Usage() string     { return "craftdoist projects [common flags]" }
func (c *ProjectsCmd) NeedsAuth() bool   { return true }

func (c *ProjectsCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProjectsCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	svc, err := sess.Service()
	if err != nil {
		return report(errOut, err)
	}

	projects, err := svc.Projects(ctx)
	if err != nil {
		return report(errOut, err)
	}
	sections, err := svc.Sections(ctx)
	if err != nil {
		return report(errOut, err)
	}

	if len(projects) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no projects found")
		}
		return exitcode.Success
	}

	byProject := make(map[string][]service.Section)
	for _, s := range sections {
		byProject[s.ProjectID] = append(byProject[s.ProjectID], s)
	}
	for _, p := range projects {
		output.FormatProjectHeader(out, p)
		for _, s := range byProject[p.ID] {
			output.FormatSection(out, s)
		}
	}
	return exitcode.Success
}
