package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"craftdoist/internal/block"
	"craftdoist/internal/service"
)

const (
	// DefaultTaskPrefix starts a task line in markdown.
	DefaultTaskPrefix = "- [ ] "

	// DefaultHeaderPrefix starts a project or section line in markdown.
	DefaultHeaderPrefix = "+ "

	// DefaultTimeLayout formats due times.
	DefaultTimeLayout = "15:04"

	mobileIcon = "📱"
	webIcon    = "🌐"
)

var contentCitation = regexp.MustCompile(`\[([^\]]+)\]\(craftdocs://open\?[^)]*\)`)

// Converter parses markdown into blocks.
type Converter interface {
	ToBlocks(src string) ([]block.Block, error)
}

// Renderer renders tasks and group headers.
type Renderer struct {
	Links      LinkSet
	Metadata   MetadataSet
	AppLinks   service.AppLinks
	Markdown   Converter
	TimeLayout string         // due time layout, DefaultTimeLayout when empty
	Location   *time.Location // due time zone, time.Local when nil
}

// StripContent replaces links back to the originating document with their
// text.
func StripContent(content string) string {
	return contentCitation.ReplaceAllString(content, "$1")
}

// TaskRuns renders the primary line of a task: its parsed content, deep links
// unless forceUnlinked, then metadata. Converter errors are returned as is.
// A link is only added when its target exists: the mobile icon needs an app
// link template and the web icon a task URL. The Todoist decoder always fills
// the URL, Google tasks without a web view link get none.
func (r *Renderer) TaskRuns(t service.Task, labels []service.Label, forceUnlinked bool) ([]block.Run, error) {
	blocks, err := r.Markdown.ToBlocks(StripContent(t.Content))
	if err != nil {
		return nil, err
	}

	var runs []block.Run
	for _, b := range blocks {
		if b.Kind == block.KindText {
			runs = append(runs, b.Runs...)
		}
	}

	if !forceUnlinked {
		if url, ok := r.mobileTaskURL(t); ok {
			runs = append(runs, block.Plain(" "), block.URL(mobileIcon, url))
		}
		if r.Links.Web && t.URL != "" {
			runs = append(runs, block.Plain(" "), block.URL(webIcon, t.URL))
		}
	}

	return append(runs, r.MetadataRuns(t, labels)...), nil
}

// TaskMarkdown renders a task as a single markdown line, with the same link
// rules as TaskRuns.
func (r *Renderer) TaskMarkdown(t service.Task, labels []service.Label, prefix string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteString(StripContent(t.Content))
	if url, ok := r.mobileTaskURL(t); ok {
		fmt.Fprintf(&sb, " [%s](%s)", mobileIcon, url)
	}
	if r.Links.Web && t.URL != "" {
		fmt.Fprintf(&sb, " [%s](%s)", webIcon, t.URL)
	}
	sb.WriteString(r.MetadataMarkdown(t, labels))
	return sb.String()
}

// ProjectMarkdown renders a project header line. With both links enabled the
// name carries the app link followed by a separate web link; with one link
// the name carries it directly.
func (r *Renderer) ProjectMarkdown(p service.Project, prefix string) string {
	name := escapeLinkText(p.Name)
	app, mobile := r.mobileProjectURL(p)
	web := r.Links.Web && p.URL != ""

	switch {
	case mobile && web:
		return fmt.Sprintf("%s[%s](%s) [(Webview)](%s)", prefix, name, app, p.URL)
	case mobile:
		return fmt.Sprintf("%s[%s](%s)", prefix, name, app)
	case web:
		return fmt.Sprintf("%s[%s](%s)", prefix, name, p.URL)
	default:
		return prefix + name
	}
}

// SectionMarkdown renders a section header line. Sections have no deep links.
func (r *Renderer) SectionMarkdown(s service.Section, prefix string) string {
	return prefix + escapeLinkText(s.Name)
}

func (r *Renderer) mobileTaskURL(t service.Task) (string, bool) {
	if !r.Links.Mobile || r.AppLinks.Task == "" {
		return "", false
	}
	return fmt.Sprintf(r.AppLinks.Task, t.ID), true
}

func (r *Renderer) mobileProjectURL(p service.Project) (string, bool) {
	if !r.Links.Mobile || r.AppLinks.Project == "" {
		return "", false
	}
	return fmt.Sprintf(r.AppLinks.Project, p.ID), true
}

var linkTextEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeLinkText(s string) string {
	return linkTextEscaper.Replace(s)
}
