package tabler

import (
	"encoding/json"
	"os"
)

// document is the on-disk shape shared by the JSON and YAML adapters.
type document struct {
	Header []string `json:"header" yaml:"header"`
	Rows   [][]any  `json:"rows" yaml:"rows"`
}

func documentOf(t *Table) document {
	doc := document{Header: t.header.Names(), Rows: make([][]any, len(t.rows))}
	for i, row := range t.rows {
		doc.Rows[i] = row.Values()
	}
	return doc
}

// JSON reads and writes {"header": [...], "rows": [[...], ...]} documents.
// Numbers are read as float64.
type JSON struct {
	// Indent, when set, pretty-prints the output with this indent.
	Indent string
}

// NewJSON returns a compact JSON adapter.
func NewJSON() *JSON { return &JSON{} }

func (j *JSON) Extension() string { return ".json" }

func (j *JSON) EmptyValue() any { return nil }

func (j *JSON) Open(path string) ([]string, [][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var doc document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, nil, err
	}
	return doc.Header, doc.Rows, nil
}

func (j *JSON) Write(t *Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := json.NewEncoder(f)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return enc.Encode(documentOf(t))
}
