package output

import (
	"context"
	"fmt"
	"io"

	"craftdoist/internal/block"
)

// Format selects how inserted blocks are written.
type Format int

const (
	Markdown Format = iota
	JSON
	Pretty
)

// ParseFormat parses "markdown", "json" or "pretty".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "pretty":
		return Pretty, nil
	}
	return 0, fmt.Errorf("unknown format: %s", s)
}

// Writer inserts blocks by writing them to W.
type Writer struct {
	Format Format
	W      io.Writer
}

// Insert writes blocks in the configured format.
func (w *Writer) Insert(ctx context.Context, blocks []block.Block) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch w.Format {
	case JSON:
		return writeJSON(w.W, blocks)
	case Pretty:
		return writePretty(w.W, blocks)
	default:
		return writeMarkdown(w.W, blocks)
	}
}
