// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"craftdoist/internal/service"
)

// ListSeparator is the separator line between project sections.
const ListSeparator = "------------"

// FormatProjectHeader formats a project section header for the projects
// command.
func FormatProjectHeader(w io.Writer, p service.Project) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "%s  (%s)\n", normalizeName(p.Name), p.ID)
	fmt.Fprintln(w, ListSeparator)
}

// FormatSection formats a section line under its project.
// Format: "    {NAME}  ({ID})\n"
func FormatSection(w io.Writer, s service.Section) {
	fmt.Fprintf(w, "    %s  (%s)\n", normalizeName(s.Name), s.ID)
}

// FormatTask formats a one-line task summary.
// Format: "{ID:>10}  {CONTENT}[ (due {DATE})][ (recurring)][ (completed)]\n"
func FormatTask(w io.Writer, t service.Task) {
	line := fmt.Sprintf("%10s  %s", t.ID, normalizeName(t.Content))
	if t.Due != nil {
		date := t.Due.Date
		if date == "" {
			date = t.Due.Datetime
		}
		if date != "" {
			line += " (due " + date + ")"
		}
		if t.Due.Recurring {
			line += " (recurring)"
		}
	}
	if t.Completed {
		line += " (completed)"
	}
	fmt.Fprintln(w, line)
}

// normalizeName normalizes a task content or project name for display.
// - Empty or whitespace-only names become "(untitled)"
// - Newlines are replaced with spaces
func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\n", " ")
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}
