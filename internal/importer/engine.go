package importer

import (
	"log/slog"

	"craftdoist/internal/block"
	"craftdoist/internal/nest"
	"craftdoist/internal/render"
	"craftdoist/internal/service"
)

// Input is one snapshot of fetched data.
type Input struct {
	Projects []service.Project
	Sections []service.Section
	Labels   []service.Label
	Tasks    []service.Task
}

// Output is the result of grouping.
type Output struct {
	Blocks  []block.Block
	Tasks   int      // task blocks emitted
	Dropped []string // IDs of root tasks whose project was not in the input
}

// Engine groups tasks into blocks.
type Engine struct {
	Renderer *render.Renderer
	Grouping Grouping
	Sort     nest.SortKey
	Exclude  []string // task IDs already present in the document
	Unlinked bool     // omit deep links on task lines
	Logger   *slog.Logger
}

// Blocks builds the grouped, indented block sequence for in. Projects keep
// the order of in.Projects; projects listed without tasks still get their
// header. Renderer and converter errors abort the whole sequence.
func (e *Engine) Blocks(in Input) (Output, error) {
	log := logger(e.Logger)

	tasks := e.workingSet(in.Tasks)
	forest := nest.Build(tasks)
	nest.SortForest(forest, e.Sort)

	nests, sectionless, unresolved := nest.GroupSections(forest, in.Sections)
	for _, n := range unresolved {
		log.Warn("section not found, task grouped under its project",
			slog.String("task", n.Task.ID), slog.String("section", n.Task.SectionID))
	}
	projects, dropped := nest.GroupProjects(in.Projects, nests, sectionless)

	var out Output
	for _, n := range dropped {
		log.Warn("project not found, task skipped",
			slog.String("task", n.Task.ID), slog.String("project", n.Task.ProjectID))
		out.Dropped = append(out.Dropped, n.Task.ID)
	}

	g := e.Grouping
	for _, pn := range projects {
		indent := 0
		if g.projectHeaders() {
			if err := e.header(&out, e.Renderer.ProjectMarkdown(pn.Project, render.DefaultHeaderPrefix), 0); err != nil {
				return Output{}, err
			}
			indent = 1
		}
		for _, n := range pn.Tasks {
			if err := e.task(&out, n, indent, in.Labels); err != nil {
				return Output{}, err
			}
		}

		for _, sn := range pn.Sections {
			if g.sectionHeaders() {
				sectionIndent := 0
				if g.projectHeaders() {
					sectionIndent = 1
				}
				if err := e.header(&out, e.Renderer.SectionMarkdown(sn.Section, render.DefaultHeaderPrefix), sectionIndent); err != nil {
					return Output{}, err
				}
			}
			for _, n := range sn.Tasks {
				if err := e.task(&out, n, g.sectionTaskIndent(), in.Labels); err != nil {
					return Output{}, err
				}
			}
		}
	}

	log.Debug("grouped tasks",
		slog.Int("tasks", out.Tasks), slog.Int("blocks", len(out.Blocks)), slog.String("grouping", g.String()))
	return out, nil
}

// FlatBlocks renders every task as its own markdown line without grouping or
// nesting.
func (e *Engine) FlatBlocks(in Input) (Output, error) {
	r := *e.Renderer
	if e.Unlinked {
		r.Links = render.LinkSet{}
	}

	var out Output
	for _, t := range e.workingSet(in.Tasks) {
		blocks, err := r.Markdown.ToBlocks(r.TaskMarkdown(t, in.Labels, render.DefaultTaskPrefix))
		if err != nil {
			return Output{}, err
		}
		out.Blocks = append(out.Blocks, blocks...)
		out.Tasks++
	}
	return out, nil
}

// workingSet drops excluded tasks and sorts a copy of the rest.
func (e *Engine) workingSet(tasks []service.Task) []service.Task {
	out := Exclude(tasks, e.Exclude)
	nest.Sort(out, e.Sort)
	return out
}

// Exclude returns a copy of tasks without the given ids.
func Exclude(tasks []service.Task, ids []string) []service.Task {
	skip := make(map[string]bool, len(ids))
	for _, id := range ids {
		skip[id] = true
	}
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if !skip[t.ID] {
			out = append(out, t)
		}
	}
	return out
}

func (e *Engine) header(out *Output, md string, indent int) error {
	blocks, err := e.Renderer.Markdown.ToBlocks(md)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		b.Indent += indent
		out.Blocks = append(out.Blocks, b)
	}
	return nil
}

// task emits n at indent and its descendants one level deeper per depth.
func (e *Engine) task(out *Output, n *nest.Node, indent int, labels []service.Label) error {
	runs, err := e.Renderer.TaskRuns(n.Task, labels, e.Unlinked)
	if err != nil {
		return err
	}
	out.Blocks = append(out.Blocks, block.Todo(runs, indent))
	out.Tasks++
	for _, c := range n.Children {
		if err := e.task(out, c, indent+1, labels); err != nil {
			return err
		}
	}
	return nil
}

// Relevant narrows projects, sections and labels to those referenced by the
// tasks, keeping their list order.
func Relevant(in Input) Input {
	projects := make(map[string]bool)
	sections := make(map[string]bool)
	labels := make(map[string]bool)
	for _, t := range in.Tasks {
		projects[t.ProjectID] = true
		if t.HasSection() {
			sections[t.SectionID] = true
		}
		for _, id := range t.LabelIDs {
			labels[id] = true
		}
	}

	out := Input{Tasks: in.Tasks}
	for _, p := range in.Projects {
		if projects[p.ID] {
			out.Projects = append(out.Projects, p)
		}
	}
	for _, s := range in.Sections {
		if sections[s.ID] {
			out.Sections = append(out.Sections, s)
		}
	}
	for _, l := range in.Labels {
		if labels[l.ID] {
			out.Labels = append(out.Labels, l)
		}
	}
	return out
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
