package tabler

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSV reads and writes delimited text. The zero value is usable: comma
// delimited, UTF-8, canonical extension ".csv".
type CSV struct {
	// Delimiter separates fields. Default: comma.
	Delimiter rune
	// Encoding is a WHATWG encoding label such as "utf-8", "windows-1252"
	// or "shift_jis". Default: UTF-8. A byte order mark is always honoured
	// on read.
	Encoding string
	// Ext is the canonical extension used when writing. Default: ".csv".
	Ext string
}

// NewCSV returns a comma-delimited UTF-8 adapter.
func NewCSV() *CSV {
	return &CSV{Delimiter: ',', Ext: ".csv"}
}

func (c *CSV) Extension() string {
	if c.Ext == "" {
		return ".csv"
	}
	return c.Ext
}

func (c *CSV) EmptyValue() any { return "" }

func (c *CSV) comma() rune {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

func (c *CSV) Open(path string) ([]string, [][]any, error) {
	dec, err := newDecoder(c.Encoding)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return readDelimited(transform.NewReader(f, dec), c.comma())
}

func (c *CSV) Write(t *Table, path string) (err error) {
	enc, err := lookupEncoding(c.Encoding)
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
	cw := csv.NewWriter(tw)
	cw.Comma = c.comma()
	if t.header.Len() > 0 {
		if err := cw.Write(t.header.names); err != nil {
			return err
		}
	}
	for _, row := range t.rows {
		if err := cw.Write(stringCells(row.values)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return tw.Close()
}

func readDelimited(r io.Reader, comma rune) ([]string, [][]any, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	rows := make([][]any, len(records)-1)
	for i, rec := range records[1:] {
		rows[i] = anyCells(rec)
	}
	return records[0], rows, nil
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", name, err)
	}
	return enc, nil
}

func newDecoder(name string) (transform.Transformer, error) {
	enc, err := lookupEncoding(name)
	if err != nil {
		return nil, err
	}
	return unicode.BOMOverride(enc.NewDecoder()), nil
}
