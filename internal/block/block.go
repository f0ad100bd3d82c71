// Package block defines the insertable document units produced by an import.
package block

import "strings"

// Kind is the block type.
type Kind int

const (
	// KindText is a text block made of styled runs.
	KindText Kind = iota

	// KindCode is a code block; its content is in Block.Text.
	KindCode

	// KindDivider is a horizontal rule.
	KindDivider
)

// ListStyle is the list decoration of a text block.
type ListStyle int

const (
	ListNone ListStyle = iota
	ListBullet
	ListNumbered
	ListToggle // foldable block, written as "+ " in markdown
	ListTodo   // checkbox
)

// LinkKind distinguishes URL links from date links.
type LinkKind int

const (
	LinkURL LinkKind = iota
	LinkDate
)

// Link is the target of a run.
type Link struct {
	Kind LinkKind
	URL  string // LinkURL
	Date string // LinkDate, YYYY-MM-DD
}

// Run is a piece of text with uniform styling.
type Run struct {
	Text          string
	Bold          bool
	Italic        bool
	Strikethrough bool
	Code          bool
	Highlight     string // colour name, empty for none
	Link          *Link
}

// Plain returns an unstyled run.
func Plain(text string) Run {
	return Run{Text: text}
}

// URL returns an unstyled run linking to url.
func URL(text, url string) Run {
	return Run{Text: text, Link: &Link{Kind: LinkURL, URL: url}}
}

// Date returns a run carrying a date link for date (YYYY-MM-DD).
func Date(text, date string) Run {
	return Run{Text: text, Link: &Link{Kind: LinkDate, Date: date}}
}

// SameStyle reports whether two runs differ only in their text.
func SameStyle(a, b Run) bool {
	if a.Bold != b.Bold || a.Italic != b.Italic || a.Strikethrough != b.Strikethrough ||
		a.Code != b.Code || a.Highlight != b.Highlight {
		return false
	}
	switch {
	case a.Link == nil && b.Link == nil:
		return true
	case a.Link == nil || b.Link == nil:
		return false
	default:
		return *a.Link == *b.Link
	}
}

// AppendRun appends r to runs, merging it into the last run when the
// styling matches. Empty runs are dropped.
func AppendRun(runs []Run, r Run) []Run {
	if r.Text == "" {
		return runs
	}
	if n := len(runs); n > 0 && SameStyle(runs[n-1], r) {
		runs[n-1].Text += r.Text
		return runs
	}
	return append(runs, r)
}

// Block is a single insertable unit.
type Block struct {
	Kind    Kind
	Runs    []Run
	Text    string // code block content
	List    ListStyle
	Checked bool
	Indent  int
}

// PlainText returns the block content without styling.
func (b Block) PlainText() string {
	if b.Kind == KindCode {
		return b.Text
	}
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Todo returns an unchecked todo block with the given runs.
func Todo(runs []Run, indent int) Block {
	return Block{Kind: KindText, Runs: runs, List: ListTodo, Indent: indent}
}
