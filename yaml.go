package tabler

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAML reads and writes documents with a header sequence and a sequence of
// row sequences. Scalars keep their YAML types.
type YAML struct {
	// Indent is the number of spaces per level. Default: the encoder's.
	Indent int
}

// NewYAML returns a YAML adapter with the encoder's default indent.
func NewYAML() *YAML { return &YAML{} }

func (y *YAML) Extension() string { return ".yaml" }

func (y *YAML) EmptyValue() any { return nil }

func (y *YAML) Open(path string) ([]string, [][]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	var doc document
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil {
		return nil, nil, err
	}
	return doc.Header, doc.Rows, nil
}

func (y *YAML) Write(t *Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	enc := yaml.NewEncoder(f)
	if y.Indent > 0 {
		enc.SetIndent(y.Indent)
	}
	if err := enc.Encode(documentOf(t)); err != nil {
		return err
	}
	return enc.Close()
}
