package render_test

import (
	"errors"
	"testing"
	"time"

	"craftdoist/internal/block"
	"craftdoist/internal/markdown"
	"craftdoist/internal/render"
	"craftdoist/internal/service"
	"craftdoist/internal/testutil"
)

func newRenderer(links render.LinkSet, meta render.MetadataSet) *render.Renderer {
	return &render.Renderer{
		Links:    links,
		Metadata: meta,
		AppLinks: testutil.TodoistLinks,
		Markdown: markdown.New(),
		Location: time.UTC,
	}
}

func texts(runs []block.Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMetadataRuns_DueDateOnly(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{DueDates: true})
	task := service.Task{ID: "1", Priority: 4, Due: &service.Due{Date: "2024-03-01"}}

	runs := r.MetadataRuns(task, nil)

	want := []string{" //", " ", "2024-03-01"}
	if !equalStrings(texts(runs), want) {
		t.Fatalf("expected %q, got %q", want, texts(runs))
	}
	var dateRuns int
	for _, run := range runs {
		if run.Link != nil {
			dateRuns++
			if run.Link.Kind != block.LinkDate || run.Link.Date != "2024-03-01" || run.Text != "2024-03-01" {
				t.Errorf("unexpected date run: %+v", run)
			}
		}
	}
	if dateRuns != 1 {
		t.Errorf("expected exactly one date run, got %d", dateRuns)
	}
}

func TestMetadataRuns_DueTimeDropsSeconds(t *testing.T) {
	tests := []struct {
		name     string
		datetime string
		layout   string
		want     string
	}{
		{"utc", "2024-03-01T09:30:45Z", "", " at 09:30"},
		{"offset converted", "2024-03-01T09:30:00+02:00", "", " at 07:30"},
		{"floating", "2024-03-01T18:05:00", "", " at 18:05"},
		{"layout with seconds", "2024-03-01T18:05:12Z", "15:04:05", " at 18:05"},
		{"twelve hour", "2024-03-01T18:05:12Z", "3:04:05 PM", " at 6:05 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(render.LinkSet{}, render.MetadataSet{DueDates: true})
			r.TimeLayout = tt.layout
			task := service.Task{Due: &service.Due{Date: "2024-03-01", Datetime: tt.datetime}}

			runs := r.MetadataRuns(task, nil)
			if len(runs) != 4 {
				t.Fatalf("expected 4 runs, got %q", texts(runs))
			}
			if runs[3].Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, runs[3].Text)
			}
		})
	}
}

func TestMetadata_Recurring(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{DueDates: true})
	task := service.Task{Due: &service.Due{Date: "2024-03-01", Recurring: true, String: "every day"}}

	runs := r.MetadataRuns(task, nil)
	last := runs[len(runs)-1]
	if last.Text != " (recurring - every day)" || !last.Italic {
		t.Errorf("unexpected recurrence run: %+v", last)
	}

	md := r.MetadataMarkdown(task, nil)
	want := " // [2024.03.01](day://2024.03.01) *(recurring)*"
	if md != want {
		t.Errorf("expected %q, got %q", want, md)
	}
}

func TestMetadataRuns_Priority(t *testing.T) {
	tests := []struct {
		priority int
		name     string
		color    string
	}{
		{1, "p4", "grey"},
		{2, "p3", "blue"},
		{3, "p2", "yellow"},
		{4, "p1", "red"},
	}
	r := newRenderer(render.LinkSet{}, render.MetadataSet{Priorities: true})
	for _, tt := range tests {
		runs := r.MetadataRuns(service.Task{Priority: tt.priority}, nil)
		if len(runs) != 3 {
			t.Fatalf("priority %d: expected 3 runs, got %q", tt.priority, texts(runs))
		}
		if runs[2].Text != tt.name || runs[2].Highlight != tt.color {
			t.Errorf("priority %d: expected %s/%s, got %s/%s", tt.priority, tt.name, tt.color, runs[2].Text, runs[2].Highlight)
		}
	}

	if runs := r.MetadataRuns(service.Task{Priority: 0}, nil); runs != nil {
		t.Errorf("expected no runs for priority 0, got %q", texts(runs))
	}
	if md := r.MetadataMarkdown(service.Task{Priority: 4}, nil); md != " // p1" {
		t.Errorf("expected %q, got %q", " // p1", md)
	}
}

func TestMetadataRuns_LabelsInTaskOrder(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{Labels: true})
	labels := []service.Label{{ID: "l1", Name: "home"}, {ID: "l2", Name: "errand"}}
	task := service.Task{LabelIDs: []string{"l2", "missing", "l1"}}

	runs := r.MetadataRuns(task, labels)
	want := []string{" //", " ", "@errand", " ", "@home"}
	if !equalStrings(texts(runs), want) {
		t.Fatalf("expected %q, got %q", want, texts(runs))
	}
	if runs[2].Highlight != "lime" || runs[4].Highlight != "lime" {
		t.Errorf("expected lime labels, got %+v", runs)
	}

	if md := r.MetadataMarkdown(task, labels); md != " // @errand @home" {
		t.Errorf("expected %q, got %q", " // @errand @home", md)
	}
}

func TestMetadata_DescriptionCitationRemoved(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{Description: true})
	task := service.Task{Description: "Craft Document: [Doc](craftdocs://open?blockId=abc&spaceId=xyz)\nnotes here"}

	runs := r.MetadataRuns(task, nil)
	want := []string{" //", " description: ", "notes here"}
	if !equalStrings(texts(runs), want) {
		t.Fatalf("expected %q, got %q", want, texts(runs))
	}
	if !runs[1].Italic || !runs[2].Italic {
		t.Error("expected italic description runs")
	}

	if md := r.MetadataMarkdown(task, nil); md != " // description: *notes here*" {
		t.Errorf("unexpected markdown: %q", md)
	}
}

func TestMetadata_OnlyCitationRendersNothing(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{Description: true})
	task := service.Task{Description: "Craft Document: [Doc](craftdocs://open?blockId=abc&spaceId=xyz)"}

	if runs := r.MetadataRuns(task, nil); runs != nil {
		t.Errorf("expected no runs, got %q", texts(runs))
	}
	if md := r.MetadataMarkdown(task, nil); md != "" {
		t.Errorf("expected empty markdown, got %q", md)
	}
}

func TestMetadata_AllKindsInOrder(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.AllMetadata)
	labels := []service.Label{{ID: "l1", Name: "home"}}
	task := service.Task{
		Priority:    3,
		Due:         &service.Due{Date: "2024-03-01"},
		LabelIDs:    []string{"l1"},
		Description: "bring bags",
	}

	want := " // [2024.03.01](day://2024.03.01) p2 @home description: *bring bags*"
	if md := r.MetadataMarkdown(task, labels); md != want {
		t.Errorf("expected %q, got %q", want, md)
	}

	runs := r.MetadataRuns(task, labels)
	wantRuns := []string{" //", " ", "2024-03-01", " ", "p2", " ", "@home", " description: ", "bring bags"}
	if !equalStrings(texts(runs), wantRuns) {
		t.Errorf("expected %q, got %q", wantRuns, texts(runs))
	}
}

func TestMetadata_DisabledRendersNothing(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{})
	task := service.Task{Priority: 4, Due: &service.Due{Date: "2024-03-01"}, Description: "x"}
	if runs := r.MetadataRuns(task, nil); runs != nil {
		t.Errorf("expected no runs, got %q", texts(runs))
	}
	if md := r.MetadataMarkdown(task, nil); md != "" {
		t.Errorf("expected empty markdown, got %q", md)
	}
}

func TestTaskRuns_LinkCombinations(t *testing.T) {
	task := service.Task{ID: "7", Content: "Call mom", URL: "https://todoist.com/showTask?id=7"}
	tests := []struct {
		name  string
		links render.LinkSet
		want  []string
		urls  []string
	}{
		{"none", render.LinkSet{}, []string{"Call mom"}, nil},
		{"mobile", render.LinkSet{Mobile: true}, []string{"Call mom", " ", "📱"}, []string{"todoist://task?id=7"}},
		{"web", render.LinkSet{Web: true}, []string{"Call mom", " ", "🌐"}, []string{"https://todoist.com/showTask?id=7"}},
		{"both", render.LinkSet{Mobile: true, Web: true}, []string{"Call mom", " ", "📱", " ", "🌐"}, []string{"todoist://task?id=7", "https://todoist.com/showTask?id=7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(tt.links, render.MetadataSet{})
			runs, err := r.TaskRuns(task, nil, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalStrings(texts(runs), tt.want) {
				t.Fatalf("expected %q, got %q", tt.want, texts(runs))
			}
			var urls []string
			for _, run := range runs {
				if run.Link != nil {
					urls = append(urls, run.Link.URL)
				}
			}
			if !equalStrings(urls, tt.urls) {
				t.Errorf("expected links %q, got %q", tt.urls, urls)
			}

			unlinked, err := r.TaskRuns(task, nil, true)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !equalStrings(texts(unlinked), []string{"Call mom"}) {
				t.Errorf("expected unlinked runs, got %q", texts(unlinked))
			}
		})
	}
}

func TestTaskMarkdown_LinkCombinations(t *testing.T) {
	task := service.Task{ID: "7", Content: "Call mom", URL: "https://todoist.com/showTask?id=7"}
	tests := []struct {
		links render.LinkSet
		want  string
	}{
		{render.LinkSet{}, "- [ ] Call mom"},
		{render.LinkSet{Mobile: true}, "- [ ] Call mom [📱](todoist://task?id=7)"},
		{render.LinkSet{Web: true}, "- [ ] Call mom [🌐](https://todoist.com/showTask?id=7)"},
		{render.LinkSet{Mobile: true, Web: true}, "- [ ] Call mom [📱](todoist://task?id=7) [🌐](https://todoist.com/showTask?id=7)"},
	}
	for _, tt := range tests {
		r := newRenderer(tt.links, render.MetadataSet{})
		if got := r.TaskMarkdown(task, nil, render.DefaultTaskPrefix); got != tt.want {
			t.Errorf("links %+v: expected %q, got %q", tt.links, tt.want, got)
		}
	}
}

func TestTaskRuns_WebLinkNeedsURL(t *testing.T) {
	r := newRenderer(render.LinkSet{Web: true}, render.MetadataSet{})
	runs, err := r.TaskRuns(service.Task{ID: "1", Content: "x"}, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(texts(runs), []string{"x"}) {
		t.Errorf("expected no web link without a task URL, got %q", texts(runs))
	}
	if got := r.TaskMarkdown(service.Task{ID: "1", Content: "x"}, nil, "- "); got != "- x" {
		t.Errorf("expected %q, got %q", "- x", got)
	}

	withURL := service.Task{ID: "1", Content: "x", URL: "https://tasks.google.com/task/1"}
	runs, err = r.TaskRuns(withURL, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	last := runs[len(runs)-1]
	if last.Link == nil || last.Link.URL != withURL.URL {
		t.Errorf("expected web link %q, got %+v", withURL.URL, last.Link)
	}
}

func TestTaskRuns_NoAppLinks(t *testing.T) {
	r := newRenderer(render.LinkSet{Mobile: true}, render.MetadataSet{})
	r.AppLinks = service.AppLinks{}
	runs, err := r.TaskRuns(service.Task{ID: "1", Content: "x"}, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStrings(texts(runs), []string{"x"}) {
		t.Errorf("expected no mobile link without app links, got %q", texts(runs))
	}
}

func TestTaskRuns_StripsCitationAndKeepsStyling(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{Priorities: true})
	task := service.Task{
		ID:       "1",
		Content:  "Write **[Report](craftdocs://open?blockId=b1&spaceId=s1)** today",
		Priority: 4,
	}

	runs, err := r.TaskRuns(task, nil, false)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Write ", "Report", " today", " //", " ", "p1"}
	if !equalStrings(texts(runs), want) {
		t.Fatalf("expected %q, got %q", want, texts(runs))
	}
	if !runs[1].Bold || runs[1].Link != nil {
		t.Errorf("expected bold unlinked run, got %+v", runs[1])
	}
}

type failingConverter struct{ err error }

func (f failingConverter) ToBlocks(string) ([]block.Block, error) { return nil, f.err }

func TestTaskRuns_ConverterErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	r := newRenderer(render.LinkSet{}, render.MetadataSet{})
	r.Markdown = failingConverter{err: boom}

	if _, err := r.TaskRuns(service.Task{Content: "x"}, nil, false); err != boom {
		t.Errorf("expected converter error unchanged, got %v", err)
	}
}

func TestProjectMarkdown_LinkCombinations(t *testing.T) {
	p := service.Project{ID: "42", Name: "Work", URL: "https://todoist.com/showProject?id=42"}
	tests := []struct {
		links render.LinkSet
		want  string
	}{
		{render.LinkSet{}, "+ Work"},
		{render.LinkSet{Mobile: true}, "+ [Work](todoist://project?id=42)"},
		{render.LinkSet{Web: true}, "+ [Work](https://todoist.com/showProject?id=42)"},
		{render.LinkSet{Mobile: true, Web: true}, "+ [Work](todoist://project?id=42) [(Webview)](https://todoist.com/showProject?id=42)"},
	}
	for _, tt := range tests {
		r := newRenderer(tt.links, render.MetadataSet{})
		if got := r.ProjectMarkdown(p, render.DefaultHeaderPrefix); got != tt.want {
			t.Errorf("links %+v: expected %q, got %q", tt.links, tt.want, got)
		}
	}
}

func TestProjectMarkdown_BracketsSurviveConversion(t *testing.T) {
	p := service.Project{ID: "42", Name: "Home [old]", URL: "https://todoist.com/showProject?id=42"}
	for _, links := range []render.LinkSet{{}, {Mobile: true}, {Mobile: true, Web: true}} {
		r := newRenderer(links, render.MetadataSet{})
		blocks, err := r.Markdown.ToBlocks(r.ProjectMarkdown(p, render.DefaultHeaderPrefix))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(blocks) != 1 || len(blocks[0].Runs) == 0 {
			t.Fatalf("links %+v: expected one header block, got %+v", links, blocks)
		}
		if got := blocks[0].Runs[0].Text; got != "Home [old]" {
			t.Errorf("links %+v: expected %q, got %q", links, "Home [old]", got)
		}
	}
}

func TestTaskRuns_EscapedContent(t *testing.T) {
	r := newRenderer(render.LinkSet{}, render.MetadataSet{})
	runs, err := r.TaskRuns(service.Task{ID: "1", Content: `Buy 2\*3 at AT&amp;T`}, nil, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ""
	for _, run := range runs {
		got += run.Text
	}
	if got != "Buy 2*3 at AT&T" {
		t.Errorf("expected %q, got %q", "Buy 2*3 at AT&T", got)
	}
}

func TestSectionMarkdown_AlwaysPlain(t *testing.T) {
	r := newRenderer(render.LinkSet{Mobile: true, Web: true}, render.MetadataSet{})
	got := r.SectionMarkdown(service.Section{ID: "s", Name: "Later [soon]"}, render.DefaultHeaderPrefix)
	if got != `+ Later \[soon\]` {
		t.Errorf("unexpected section line: %q", got)
	}
}

func TestParseSettings(t *testing.T) {
	links, err := render.ParseLinks([]string{"web", "mobile"})
	if err != nil || !links.Mobile || !links.Web {
		t.Errorf("unexpected links %+v (err %v)", links, err)
	}
	if _, err := render.ParseLinks([]string{"desktop"}); err == nil {
		t.Error("expected error for unknown link type")
	}

	meta, err := render.ParseMetadata([]string{"dueDates", "labels"})
	if err != nil || !meta.DueDates || !meta.Labels || meta.Priorities || meta.Description {
		t.Errorf("unexpected metadata %+v (err %v)", meta, err)
	}
	if _, err := render.ParseMetadata([]string{"color"}); err == nil {
		t.Error("expected error for unknown metadata type")
	}
}
