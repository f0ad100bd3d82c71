package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"craftdoist/internal/config"
	"craftdoist/internal/exitcode"
	"craftdoist/internal/importer"
	"craftdoist/internal/markdown"
	"craftdoist/internal/nest"
	"craftdoist/internal/output"
	"craftdoist/internal/render"
	"craftdoist/internal/service"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command. It is also run when no command is
// given.
type ImportCmd struct {
	today        bool
	project      string
	filter       string
	group        string
	sort         string
	format       string
	flat         bool
	exclude      string
	skipExisting string
	unlinked     bool

	// Location overrides the zone due times are shown in (for testing).
	Location *time.Location
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return []string{"i"} }
func (c *ImportCmd) Synopsis() string  { return "Render open tasks as grouped, nested blocks" }
func (c *ImportCmd) Usage() string {
	return "craftdoist import [--today | --filter <query>] [--project <name-or-id>] [--group <mode>] [--sort <key>] [--format <fmt>] [--flat] [--unlinked] [--exclude <ids>] [--skip-existing <file>]"
}
func (c *ImportCmd) NeedsAuth() bool { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.today, "today", false, "")
	fs.StringVar(&c.project, "project", "", "")
	fs.StringVar(&c.project, "p", "", "")
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.group, "group", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
	fs.StringVar(&c.format, "format", "", "")
	fs.BoolVar(&c.flat, "flat", false, "")
	fs.StringVar(&c.exclude, "exclude", "", "")
	fs.StringVar(&c.skipExisting, "skip-existing", "", "")
	fs.BoolVar(&c.unlinked, "unlinked", false, "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, sess *service.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.today && c.filter != "" {
		fmt.Fprintln(errOut, "error: cannot use both --today and --filter")
		return exitcode.UserError
	}

	s := cfg.Settings
	req := importer.Request{Flat: c.flat, Unlinked: c.unlinked}
	var err error
	if req.Grouping, err = importer.ParseGrouping(firstNonEmpty(c.group, s.Grouping)); err != nil {
		return report(errOut, err)
	}
	if req.Sort, err = nest.ParseSortKey(firstNonEmpty(c.sort, s.Sort)); err != nil {
		return report(errOut, err)
	}
	format, err := output.ParseFormat(firstNonEmpty(c.format, s.Format))
	if err != nil {
		return report(errOut, err)
	}
	r, err := newRenderer(s)
	if err != nil {
		return report(errOut, err)
	}
	r.Location = c.Location

	if req.Exclude, err = c.excluded(); err != nil {
		return report(errOut, err)
	}

	req.Query.Filter = c.filter
	if c.today {
		req.Query.Filter = service.TodayFilter
	}
	if c.project != "" {
		svc, err := sess.Service()
		if err != nil {
			return report(errOut, err)
		}
		p, err := ResolveProject(ctx, svc, c.project)
		if err != nil {
			return report(errOut, err)
		}
		req.Query.ProjectID = p.ID
	}

	im := &importer.Importer{
		Session:  sess,
		Renderer: r,
		Inserter: &output.Writer{Format: format, W: out},
		Logger:   cfg.Logger(errOut),
	}
	res, err := im.Run(ctx, req)
	if err != nil {
		return report(errOut, err)
	}

	if res.Tasks == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}

// excluded collects task IDs from --exclude and --skip-existing.
func (c *ImportCmd) excluded() ([]string, error) {
	var ids []string
	for _, id := range strings.Split(c.exclude, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if c.skipExisting == "" {
		return ids, nil
	}

	f, err := os.Open(c.skipExisting)
	if err != nil {
		return nil, fmt.Errorf("failed to open existing document: %w", err)
	}
	defer f.Close()
	existing, err := importer.ExistingTaskIDs(f)
	if err != nil {
		return nil, err
	}
	return append(ids, existing...), nil
}

// newRenderer builds a renderer from the display settings.
func newRenderer(s config.Settings) (render.Renderer, error) {
	links, err := render.ParseLinks(s.Links)
	if err != nil {
		return render.Renderer{}, err
	}
	meta, err := render.ParseMetadata(s.Metadata)
	if err != nil {
		return render.Renderer{}, err
	}
	return render.Renderer{
		Links:      links,
		Metadata:   meta,
		Markdown:   markdown.New(),
		TimeLayout: s.TimeFormat,
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
