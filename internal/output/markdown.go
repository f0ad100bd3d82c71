package output

import (
	"bufio"
	"io"
	"strings"

	"craftdoist/internal/block"
)

func writeMarkdown(w io.Writer, blocks []block.Block) error {
	bw := bufio.NewWriter(w)
	for _, b := range blocks {
		indent := strings.Repeat("\t", b.Indent)
		switch b.Kind {
		case block.KindCode:
			bw.WriteString(indent + "```\n")
			for _, line := range strings.Split(b.Text, "\n") {
				bw.WriteString(indent + line + "\n")
			}
			bw.WriteString(indent + "```\n")
		case block.KindDivider:
			bw.WriteString(indent + "---\n")
		default:
			bw.WriteString(indent + listPrefix(b))
			for _, r := range b.Runs {
				bw.WriteString(markdownRun(r))
			}
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}

func listPrefix(b block.Block) string {
	switch b.List {
	case block.ListTodo:
		if b.Checked {
			return "- [x] "
		}
		return "- [ ] "
	case block.ListToggle:
		return "+ "
	case block.ListBullet:
		return "- "
	case block.ListNumbered:
		return "1. "
	default:
		return ""
	}
}

func markdownRun(r block.Run) string {
	text := r.Text
	if strings.TrimSpace(text) == "" {
		// Markup around whitespace does not parse back.
		return text
	}
	if r.Code {
		text = "`" + text + "`"
	}
	if r.Highlight != "" {
		text = "::" + text + "::"
	}
	if r.Strikethrough {
		text = "~~" + text + "~~"
	}
	if r.Italic {
		text = "*" + text + "*"
	}
	if r.Bold {
		text = "**" + text + "**"
	}
	if r.Link != nil {
		text = "[" + text + "](" + linkTarget(*r.Link) + ")"
	}
	return text
}

// linkTarget returns the URL of a link; date links use the day:// scheme
// with dotted dates.
func linkTarget(l block.Link) string {
	if l.Kind == block.LinkDate {
		return "day://" + strings.ReplaceAll(l.Date, "-", ".")
	}
	return l.URL
}
