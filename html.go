package tabler

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"golang.org/x/text/transform"
)

// defaultHTMLTemplate renders the table as a bare <table> element.
var defaultHTMLTemplate = template.Must(template.New("table").Parse(`<table>
{{- if .ShowHeader}}
  <thead>
    <tr>
{{- range .Header}}
      <th>{{.}}</th>
{{- end}}
    </tr>
  </thead>
{{- end}}
  <tbody>
{{- range .Rows}}
    <tr>
{{- range .}}
      <td>{{.}}</td>
{{- end}}
    </tr>
{{- end}}
  </tbody>
</table>
`))

// HTMLContext is the data an [HTML] template is executed with. Labels and
// cells are strings, or [template.HTML] when [HTML.Raw] is set.
type HTMLContext struct {
	Header     []any
	Rows       [][]any
	ShowHeader bool
}

// HTML writes a table as HTML markup. It cannot open files.
type HTML struct {
	// HideHeader leaves the header row out of the output.
	HideHeader bool
	// Raw inserts labels and cells as markup instead of escaping them.
	Raw bool
	// Template renders an [HTMLContext]. Default: a plain <table>.
	Template *template.Template
	// Encoding is a WHATWG encoding label for the output. Default: UTF-8.
	Encoding string
}

// NewHTML returns an adapter that writes the header and uses the default
// template.
func NewHTML() *HTML { return &HTML{} }

func (h *HTML) Extension() string { return ".html" }

func (h *HTML) EmptyValue() any { return "" }

// Render executes the template for t and writes the markup to w.
func (h *HTML) Render(w io.Writer, t *Table) error {
	tmpl := h.Template
	if tmpl == nil {
		tmpl = defaultHTMLTemplate
	}
	ctx := HTMLContext{
		Header:     h.cells(t.header.names),
		Rows:       make([][]any, len(t.rows)),
		ShowHeader: !h.HideHeader && t.header.Len() > 0,
	}
	for i, row := range t.rows {
		ctx.Rows[i] = h.cells(stringCells(row.values))
	}
	if err := tmpl.Execute(w, ctx); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

func (h *HTML) cells(text []string) []any {
	out := make([]any, len(text))
	for i, s := range text {
		if h.Raw {
			out[i] = template.HTML(s)
		} else {
			out[i] = s
		}
	}
	return out
}

func (h *HTML) Write(t *Table, path string) (err error) {
	enc, err := lookupEncoding(h.Encoding)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	tw := transform.NewWriter(f, enc.NewEncoder())
	if err := h.Render(tw, t); err != nil {
		return err
	}
	return tw.Close()
}
