package tabler

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Markdown writes a GitHub-flavoured Markdown table. It cannot open files
// and needs a header.
type Markdown struct {
	// Alignments sets per-column alignment markers. Default: AlignLeft.
	Alignments []Alignment
}

// NewMarkdown returns a left-aligned Markdown adapter.
func NewMarkdown() *Markdown { return &Markdown{} }

func (m *Markdown) Extension() string { return ".md" }

func (m *Markdown) EmptyValue() any { return "" }

func (m *Markdown) Write(t *Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return m.Render(f, t)
}

// Render writes t to w as a Markdown table.
func (m *Markdown) Render(w io.Writer, t *Table) error {
	if t.header.Len() == 0 {
		return fmt.Errorf("%w: markdown needs a header", ErrNotSupported)
	}
	header := escapeMarkdownRow(t.header.names)
	numCols := len(header)

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = escapeMarkdownRow(stringCells(row.values))
	}

	// Calculate column widths (minimum 3 for alignment markers).
	widths := computeWidths(numCols, header, rows)
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	aligns := extendAligns(m.Alignments, numCols)

	if err := writeMarkdownRow(w, header, widths, aligns); err != nil {
		return err
	}

	sep := make([]string, numCols)
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths, aligns); err != nil {
			return err
		}
	}
	return nil
}

func escapeMarkdownRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}

func writeMarkdownRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, aligns[i])
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}
