package output

import (
	"encoding/json"
	"fmt"
	"io"

	"craftdoist/internal/block"
)

type jsonBlock struct {
	Type             string    `json:"type"`
	Content          []jsonRun `json:"content,omitempty"`
	Code             string    `json:"code,omitempty"`
	ListStyle        *jsonList `json:"listStyle,omitempty"`
	IndentationLevel int       `json:"indentationLevel"`
}

type jsonList struct {
	Type  string `json:"type"`
	State string `json:"state,omitempty"`
}

type jsonRun struct {
	Text            string    `json:"text"`
	IsBold          bool      `json:"isBold,omitempty"`
	IsItalic        bool      `json:"isItalic,omitempty"`
	IsStrikethrough bool      `json:"isStrikethrough,omitempty"`
	IsCode          bool      `json:"isCode,omitempty"`
	HighlightColor  string    `json:"highlightColor,omitempty"`
	Link            *jsonLink `json:"link,omitempty"`
}

type jsonLink struct {
	Type string `json:"type"`
	URL  string `json:"url,omitempty"`
	Date string `json:"date,omitempty"`
}

func writeJSON(w io.Writer, blocks []block.Block) error {
	out := make([]jsonBlock, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, toJSON(b))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode blocks: %w", err)
	}
	return nil
}

func toJSON(b block.Block) jsonBlock {
	jb := jsonBlock{IndentationLevel: b.Indent}
	switch b.Kind {
	case block.KindCode:
		jb.Type = "codeBlock"
		jb.Code = b.Text
		return jb
	case block.KindDivider:
		jb.Type = "horizontalLineBlock"
		return jb
	}

	jb.Type = "textBlock"
	for _, r := range b.Runs {
		jr := jsonRun{
			Text:            r.Text,
			IsBold:          r.Bold,
			IsItalic:        r.Italic,
			IsStrikethrough: r.Strikethrough,
			IsCode:          r.Code,
			HighlightColor:  r.Highlight,
		}
		if r.Link != nil {
			if r.Link.Kind == block.LinkDate {
				jr.Link = &jsonLink{Type: "dateLink", Date: r.Link.Date}
			} else {
				jr.Link = &jsonLink{Type: "url", URL: r.Link.URL}
			}
		}
		jb.Content = append(jb.Content, jr)
	}

	switch b.List {
	case block.ListTodo:
		state := "unchecked"
		if b.Checked {
			state = "checked"
		}
		jb.ListStyle = &jsonList{Type: "todo", State: state}
	case block.ListToggle:
		jb.ListStyle = &jsonList{Type: "toggle"}
	case block.ListBullet:
		jb.ListStyle = &jsonList{Type: "bullet"}
	case block.ListNumbered:
		jb.ListStyle = &jsonList{Type: "numbered"}
	}
	return jb
}
