// Package markdown converts markdown strings into document blocks.
package markdown

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"craftdoist/internal/block"
)

// ErrMalformed is returned for input that cannot be parsed.
var ErrMalformed = errors.New("malformed markdown")

// Converter turns markdown into blocks. The zero value is not usable; use New.
type Converter struct {
	md goldmark.Markdown
}

// New creates a Converter with GitHub flavoured markdown enabled
// (strikethrough, task lists, autolinks).
func New() *Converter {
	return &Converter{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// ToBlocks parses src and returns its blocks in document order.
// Nested list items get one extra indentation level per depth.
func (c *Converter) ToBlocks(src string) ([]block.Block, error) {
	if !utf8.ValidString(src) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrMalformed)
	}
	source := []byte(src)
	doc := c.md.Parser().Parse(text.NewReader(source))

	w := &walker{src: source}
	w.children(doc, 0)
	return w.out, nil
}

type walker struct {
	src []byte
	out []block.Block
}

func (w *walker) children(n ast.Node, indent int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.block(c, indent)
	}
}

func (w *walker) block(n ast.Node, indent int) {
	switch v := n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		if runs := w.inlines(n, block.Run{}, nil); len(runs) > 0 {
			w.out = append(w.out, block.Block{Kind: block.KindText, Runs: runs, Indent: indent})
		}
	case *ast.List:
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			w.item(item, v, indent)
		}
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		w.out = append(w.out, block.Block{Kind: block.KindCode, Text: w.lines(n), Indent: indent})
	case *ast.ThematicBreak:
		w.out = append(w.out, block.Block{Kind: block.KindDivider, Indent: indent})
	default:
		w.children(n, indent)
	}
}

// item emits the first textual child of a list item with the list's style,
// everything else one level deeper.
func (w *walker) item(item ast.Node, list *ast.List, indent int) {
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		if c != item.FirstChild() || !isTextual(c) {
			w.block(c, indent+1)
			continue
		}

		b := block.Block{Kind: block.KindText, Indent: indent, List: listStyle(list)}
		if cb, ok := c.FirstChild().(*east.TaskCheckBox); ok {
			b.List = block.ListTodo
			b.Checked = cb.IsChecked
		}
		b.Runs = w.inlines(c, block.Run{}, nil)
		if b.List == block.ListTodo && len(b.Runs) > 0 {
			b.Runs[0].Text = strings.TrimLeft(b.Runs[0].Text, " ")
		}
		w.out = append(w.out, b)
	}
}

func (w *walker) inlines(n ast.Node, style block.Run, runs []block.Run) []block.Run {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		s := style
		switch v := c.(type) {
		case *ast.Text:
			value := v.Segment.Value(w.src)
			if !v.IsRaw() {
				value = resolve(value)
			}
			s.Text = string(value)
			runs = block.AppendRun(runs, s)
			if v.HardLineBreak() {
				s.Text = "\n"
				runs = block.AppendRun(runs, s)
			} else if v.SoftLineBreak() {
				s.Text = " "
				runs = block.AppendRun(runs, s)
			}
		case *ast.String:
			s.Text = string(v.Value)
			runs = block.AppendRun(runs, s)
		case *ast.CodeSpan:
			s.Code = true
			runs = w.inlines(c, s, runs)
		case *ast.Emphasis:
			if v.Level >= 2 {
				s.Bold = true
			} else {
				s.Italic = true
			}
			runs = w.inlines(c, s, runs)
		case *east.Strikethrough:
			s.Strikethrough = true
			runs = w.inlines(c, s, runs)
		case *ast.Link:
			s.Link = &block.Link{Kind: block.LinkURL, URL: string(resolve(v.Destination))}
			runs = w.inlines(c, s, runs)
		case *ast.AutoLink:
			s.Link = &block.Link{Kind: block.LinkURL, URL: string(v.URL(w.src))}
			s.Text = string(v.Label(w.src))
			runs = block.AppendRun(runs, s)
		case *ast.RawHTML:
			for i := 0; i < v.Segments.Len(); i++ {
				seg := v.Segments.At(i)
				s.Text = string(seg.Value(w.src))
				runs = block.AppendRun(runs, s)
			}
		case *east.TaskCheckBox:
			// consumed as list style
		default:
			runs = w.inlines(c, s, runs)
		}
	}
	return runs
}

// resolve applies backslash escapes and character references the way
// goldmark's HTML renderer does.
func resolve(v []byte) []byte {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	return util.ResolveEntityNames(v)
}

func (w *walker) lines(n ast.Node) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.src))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func isTextual(n ast.Node) bool {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		return true
	}
	return false
}

func listStyle(l *ast.List) block.ListStyle {
	switch {
	case l.IsOrdered():
		return block.ListNumbered
	case l.Marker == '+':
		return block.ListToggle
	default:
		return block.ListBullet
	}
}
