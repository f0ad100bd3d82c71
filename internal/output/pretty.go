package output

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"craftdoist/internal/block"
)

// highlightColors maps highlight names to ANSI colours.
var highlightColors = map[string]lipgloss.Color{
	"red":    "9",
	"yellow": "11",
	"blue":   "12",
	"grey":   "8",
	"lime":   "10",
}

// writePretty writes blocks for a terminal. Styling follows the colour
// profile of w, so non-terminal writers get plain text.
func writePretty(w io.Writer, blocks []block.Block) error {
	r := lipgloss.NewRenderer(w)
	muted := r.NewStyle().Foreground(lipgloss.Color("241"))

	bw := bufio.NewWriter(w)
	for _, b := range blocks {
		indent := strings.Repeat("  ", b.Indent)
		switch b.Kind {
		case block.KindCode:
			for _, line := range strings.Split(b.Text, "\n") {
				bw.WriteString(indent + muted.Render("│ "+line) + "\n")
			}
		case block.KindDivider:
			bw.WriteString(indent + muted.Render(strings.Repeat("─", 20)) + "\n")
		default:
			bw.WriteString(indent + bullet(b))
			for _, run := range b.Runs {
				bw.WriteString(styleFor(r, run).Render(run.Text))
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func bullet(b block.Block) string {
	switch b.List {
	case block.ListTodo:
		if b.Checked {
			return "☑ "
		}
		return "☐ "
	case block.ListToggle:
		return "▸ "
	case block.ListBullet:
		return "• "
	case block.ListNumbered:
		return "1. "
	default:
		return ""
	}
}

func styleFor(r *lipgloss.Renderer, run block.Run) lipgloss.Style {
	s := r.NewStyle().
		Bold(run.Bold).
		Italic(run.Italic).
		Strikethrough(run.Strikethrough)
	if run.Code {
		s = s.Foreground(lipgloss.Color("214"))
	}
	if c, ok := highlightColors[run.Highlight]; ok {
		s = s.Foreground(c)
	}
	if run.Link != nil {
		s = s.Underline(true)
	}
	return s
}
