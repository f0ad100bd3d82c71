package importer

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/oklog/ulid/v2"

	"craftdoist/internal/block"
	"craftdoist/internal/nest"
	"craftdoist/internal/render"
	"craftdoist/internal/service"
)

// ErrBusy is returned when an import is started while another is running.
var ErrBusy = errors.New("an import is already running")

// Inserter receives the finished block sequence of an import.
type Inserter interface {
	Insert(ctx context.Context, blocks []block.Block) error
}

// Request describes one import.
type Request struct {
	Query    service.TaskQuery
	Grouping Grouping
	Sort     nest.SortKey
	Exclude  []string
	Unlinked bool
	Flat     bool
}

// Result summarizes a finished import.
type Result struct {
	RunID   string
	Tasks   int
	Blocks  int
	Dropped []string
}

// Importer runs import passes. Only one pass runs at a time.
type Importer struct {
	Session  *service.Session
	Renderer render.Renderer // AppLinks are taken from the session's service
	Inserter Inserter
	Logger   *slog.Logger

	busy atomic.Bool
}

// Run fetches tasks, projects, sections and labels, groups them and hands
// the blocks to the inserter in a single call. Nothing is inserted when any
// step fails or when there are no tasks.
func (im *Importer) Run(ctx context.Context, req Request) (Result, error) {
	if !im.busy.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer im.busy.Store(false)

	res := Result{RunID: ulid.Make().String()}
	log := logger(im.Logger).With(slog.String("run", res.RunID))

	svc, err := im.Session.Service()
	if err != nil {
		return res, err
	}

	in, err := fetch(ctx, svc, req.Query)
	if err != nil {
		log.Debug("fetch failed", slog.String("error", err.Error()))
		return res, err
	}
	log.Debug("fetched",
		slog.Int("tasks", len(in.Tasks)), slog.Int("projects", len(in.Projects)),
		slog.Int("sections", len(in.Sections)), slog.Int("labels", len(in.Labels)))

	r := im.Renderer
	r.AppLinks = svc.AppLinks()
	eng := &Engine{
		Renderer: &r,
		Grouping: req.Grouping,
		Sort:     req.Sort,
		Exclude:  req.Exclude,
		Unlinked: req.Unlinked,
		Logger:   log,
	}

	// Excluded tasks must not keep their project or section in scope.
	in.Tasks = Exclude(in.Tasks, req.Exclude)
	in = Relevant(in)

	var out Output
	if req.Flat {
		out, err = eng.FlatBlocks(in)
	} else {
		out, err = eng.Blocks(in)
	}
	if err != nil {
		return res, err
	}

	res.Tasks = out.Tasks
	res.Blocks = len(out.Blocks)
	res.Dropped = out.Dropped
	if len(out.Blocks) == 0 {
		log.Debug("nothing to insert")
		return res, nil
	}

	if err := im.Inserter.Insert(ctx, out.Blocks); err != nil {
		return res, err
	}
	log.Debug("inserted", slog.Int("blocks", res.Blocks))
	return res, nil
}

func fetch(ctx context.Context, svc service.Service, q service.TaskQuery) (Input, error) {
	var (
		in  Input
		err error
	)
	if in.Tasks, err = svc.Tasks(ctx, q); err != nil {
		return Input{}, err
	}
	if in.Projects, err = svc.Projects(ctx); err != nil {
		return Input{}, err
	}
	if in.Sections, err = svc.Sections(ctx); err != nil {
		return Input{}, err
	}
	if in.Labels, err = svc.Labels(ctx); err != nil {
		return Input{}, err
	}
	return in, nil
}
