package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"craftdoist/internal/block"
	"craftdoist/internal/service"
)

// Separator precedes the metadata of a task.
const Separator = " //"

// Highlight colour for labels.
const labelColor = "lime"

var (
	descriptionCitation = regexp.MustCompile(`Craft Document: \[[^\]]+\]\(craftdocs://open\?[^)]*\)`)
	secondsGroup        = regexp.MustCompile(`(\d+:\d+)(:\d+)(.*)`)
)

// StripDescription removes the citation of the originating document from a
// task description.
func StripDescription(desc string) string {
	return strings.TrimSpace(descriptionCitation.ReplaceAllString(desc, ""))
}

// priority maps the service priority (4 is most urgent) to its display name
// and colour.
func priority(p int) (name, color string, ok bool) {
	switch p {
	case 1:
		return "p4", "grey", true
	case 2:
		return "p3", "blue", true
	case 3:
		return "p2", "yellow", true
	case 4:
		return "p1", "red", true
	}
	return "", "", false
}

// MetadataRuns renders the enabled metadata of t as runs: due date,
// priority, labels, description. The result is empty when nothing applies.
func (r *Renderer) MetadataRuns(t service.Task, labels []service.Label) []block.Run {
	var runs []block.Run

	if r.Metadata.DueDates && t.Due != nil && t.Due.Date != "" {
		runs = append(runs, block.Plain(" "), block.Date(t.Due.Date, t.Due.Date))
		if at, ok := r.dueTime(t.Due); ok {
			runs = append(runs, block.Plain(" at "+at))
		}
		if t.Due.Recurring {
			text := " (recurring)"
			if t.Due.String != "" {
				text = " (recurring - " + t.Due.String + ")"
			}
			runs = append(runs, block.Run{Text: text, Italic: true})
		}
	}

	if r.Metadata.Priorities {
		if name, color, ok := priority(t.Priority); ok {
			runs = append(runs, block.Plain(" "), block.Run{Text: name, Highlight: color})
		}
	}

	if r.Metadata.Labels {
		for _, name := range labelNames(t, labels) {
			runs = append(runs, block.Plain(" "), block.Run{Text: "@" + name, Highlight: labelColor})
		}
	}

	if r.Metadata.Description {
		if desc := StripDescription(t.Description); desc != "" {
			runs = append(runs,
				block.Run{Text: " description: ", Italic: true},
				block.Run{Text: desc, Italic: true},
			)
		}
	}

	if len(runs) == 0 {
		return nil
	}
	return append([]block.Run{block.Plain(Separator)}, runs...)
}

// MetadataMarkdown renders the enabled metadata of t as a markdown suffix.
func (r *Renderer) MetadataMarkdown(t service.Task, labels []service.Label) string {
	var sb strings.Builder

	if r.Metadata.DueDates && t.Due != nil && t.Due.Date != "" {
		day := strings.ReplaceAll(t.Due.Date, "-", ".")
		fmt.Fprintf(&sb, " [%s](day://%s)", day, day)
		if at, ok := r.dueTime(t.Due); ok {
			sb.WriteString(" at " + at)
		}
		if t.Due.Recurring {
			sb.WriteString(" *(recurring)*")
		}
	}

	if r.Metadata.Priorities {
		if name, _, ok := priority(t.Priority); ok {
			sb.WriteString(" " + name)
		}
	}

	if r.Metadata.Labels {
		for _, name := range labelNames(t, labels) {
			sb.WriteString(" @" + name)
		}
	}

	if r.Metadata.Description {
		if desc := StripDescription(t.Description); desc != "" {
			sb.WriteString(" description: *" + desc + "*")
		}
	}

	if sb.Len() == 0 {
		return ""
	}
	return Separator + sb.String()
}

// labelNames resolves the task's label IDs in task order, skipping unknown IDs.
func labelNames(t service.Task, labels []service.Label) []string {
	var names []string
	for _, id := range t.LabelIDs {
		for _, l := range labels {
			if l.ID == id {
				names = append(names, l.Name)
				break
			}
		}
	}
	return names
}

// dueTime formats the time of day of a due date without seconds.
func (r *Renderer) dueTime(d *service.Due) (string, bool) {
	if d.Datetime == "" {
		return "", false
	}
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}

	ts, err := time.Parse(time.RFC3339, d.Datetime)
	if err == nil {
		ts = ts.In(loc)
	} else {
		// Floating times carry no zone and are shown as is.
		ts, err = time.ParseInLocation("2006-01-02T15:04:05", d.Datetime, loc)
		if err != nil {
			return "", false
		}
	}

	layout := r.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	return secondsGroup.ReplaceAllString(ts.Format(layout), "$1$3"), true
}
