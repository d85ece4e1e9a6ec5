package tabler

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	odsMimeType = "application/vnd.oasis.opendocument.spreadsheet"
	nsOffice    = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable     = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText      = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
)

const odsManifest = xml.Header + `<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:version="1.2" manifest:media-type="` + odsMimeType + `"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

// ODS reads and writes OpenDocument spreadsheets. Float, percentage and
// currency cells are read as float64, boolean cells as bool, and the rest
// as their displayed text.
type ODS struct {
	// Sheet is the index of the table read by Open. Default: 0.
	Sheet int
	// SheetName names the table created by Write. Default: "Sheet1".
	SheetName string
}

// NewODS returns an adapter reading the first sheet and writing "Sheet1".
func NewODS() *ODS {
	return &ODS{SheetName: defaultSheetName}
}

func (o *ODS) Extension() string { return ".ods" }

func (o *ODS) EmptyValue() any { return "" }

// --- Reading ---

type odsContent struct {
	Body struct {
		Spreadsheet struct {
			Tables []odsTable `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table"`
		} `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 spreadsheet"`
	} `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 body"`
}

type odsTable struct {
	Name       string   `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 name,attr"`
	HeaderRows []odsRow `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table-header-rows>table-row"`
	Rows       []odsRow `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table-row"`
}

type odsRow struct {
	Repeat int       `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 number-rows-repeated,attr"`
	Cells  []odsCell `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 table-cell"`
}

type odsCell struct {
	Repeat     int      `xml:"urn:oasis:names:tc:opendocument:xmlns:table:1.0 number-columns-repeated,attr"`
	ValueType  string   `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 value-type,attr"`
	Value      string   `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 value,attr"`
	DateValue  string   `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 date-value,attr"`
	BoolValue  string   `xml:"urn:oasis:names:tc:opendocument:xmlns:office:1.0 boolean-value,attr"`
	Paragraphs []odsParagraph `xml:"urn:oasis:names:tc:opendocument:xmlns:text:1.0 p"`
}

// odsParagraph is the text of a <text:p>. Spans and links are flattened,
// and space, tab and line-break elements become the characters they
// stand for. Annotations and other foreign elements are skipped.
type odsParagraph string

func (p *odsParagraph) UnmarshalXML(d *xml.Decoder, _ xml.StartElement) error {
	var sb strings.Builder
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			if t.Name.Space != nsText {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			switch t.Name.Local {
			case "s":
				sb.WriteString(strings.Repeat(" ", odsSpaceCount(t.Attr)))
			case "tab":
				sb.WriteByte('\t')
			case "line-break":
				sb.WriteByte('\n')
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				*p = odsParagraph(sb.String())
				return nil
			}
			depth--
		}
	}
}

func odsSpaceCount(attrs []xml.Attr) int {
	for _, a := range attrs {
		if a.Name.Space == nsText && a.Name.Local == "c" {
			if n, err := strconv.Atoi(a.Value); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

var odsDateLayouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"}

func (c odsCell) value() any {
	switch c.ValueType {
	case "float", "percentage", "currency":
		if n, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return n
		}
	case "boolean":
		return c.BoolValue == "true"
	case "date":
		for _, layout := range odsDateLayouts {
			if tm, err := time.Parse(layout, c.DateValue); err == nil {
				return tm
			}
		}
		return c.DateValue
	}
	lines := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		lines[i] = string(p)
	}
	return strings.Join(lines, "\n")
}

func (o *ODS) Open(path string) ([]string, [][]any, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	defer zr.Close()

	var content odsContent
	found := false
	for _, zf := range zr.File {
		if zf.Name != "content.xml" {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return nil, nil, err
		}
		err = xml.NewDecoder(rc).Decode(&content)
		rc.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("decode content.xml: %w", err)
		}
		found = true
		break
	}
	if !found {
		return nil, nil, fmt.Errorf("%s: no content.xml", path)
	}

	tables := content.Body.Spreadsheet.Tables
	if o.Sheet < 0 || o.Sheet >= len(tables) {
		return nil, nil, fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, o.Sheet, len(tables))
	}
	tbl := tables[o.Sheet]
	records := expandODSRows(append(tbl.HeaderRows, tbl.Rows...))
	if len(records) == 0 {
		return nil, nil, nil
	}
	return stringCells(records[0]), records[1:], nil
}

// expandODSRows applies row and column repeats. Runs of empty cells or
// rows are only materialized when something follows them, so the padding
// spreadsheets add to fill a sheet is dropped.
func expandODSRows(rows []odsRow) [][]any {
	var out [][]any
	pendingRows := 0
	for _, r := range rows {
		cells := expandODSCells(r.Cells)
		repeat := max(r.Repeat, 1)
		if len(cells) == 0 {
			pendingRows += repeat
			continue
		}
		for ; pendingRows > 0; pendingRows-- {
			out = append(out, []any{})
		}
		for range repeat {
			out = append(out, append([]any(nil), cells...))
		}
	}
	return out
}

func expandODSCells(cells []odsCell) []any {
	var out []any
	pending := 0
	for _, c := range cells {
		v := c.value()
		repeat := max(c.Repeat, 1)
		if isBlank(v) {
			pending += repeat
			continue
		}
		for ; pending > 0; pending-- {
			out = append(out, "")
		}
		for range repeat {
			out = append(out, v)
		}
	}
	return out
}

// --- Writing ---

type odsOutDocument struct {
	XMLName  xml.Name      `xml:"office:document-content"`
	NSOffice string        `xml:"xmlns:office,attr"`
	NSTable  string        `xml:"xmlns:table,attr"`
	NSText   string        `xml:"xmlns:text,attr"`
	Version  string        `xml:"office:version,attr"`
	Tables   []odsOutTable `xml:"office:body>office:spreadsheet>table:table"`
}

type odsOutTable struct {
	Name string      `xml:"table:name,attr"`
	Rows []odsOutRow `xml:"table:table-row"`
}

type odsOutRow struct {
	Cells []odsOutCell `xml:"table:table-cell"`
}

type odsOutCell struct {
	ValueType string  `xml:"office:value-type,attr,omitempty"`
	Value     string  `xml:"office:value,attr,omitempty"`
	DateValue string  `xml:"office:date-value,attr,omitempty"`
	BoolValue string  `xml:"office:boolean-value,attr,omitempty"`
	Text      *string `xml:"text:p"`
}

func odsOutRowOf(values []any) odsOutRow {
	row := odsOutRow{Cells: make([]odsOutCell, len(values))}
	for i, v := range values {
		if isBlank(v) {
			continue
		}
		text := cellString(v)
		cell := odsOutCell{ValueType: "string", Text: &text}
		switch x := v.(type) {
		case bool:
			cell.ValueType = "boolean"
			cell.BoolValue = strconv.FormatBool(x)
		case time.Time:
			cell.ValueType = "date"
			cell.DateValue = x.Format("2006-01-02T15:04:05")
		case string:
		default:
			if n, ok := numericValue(v); ok {
				cell.ValueType = "float"
				cell.Value = strconv.FormatFloat(n, 'f', -1, 64)
			}
		}
		row.Cells[i] = cell
	}
	return row
}

func (o *ODS) Write(t *Table, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	name := o.SheetName
	if name == "" {
		name = defaultSheetName
	}
	sheet := odsOutTable{Name: name}
	if t.header.Len() > 0 {
		sheet.Rows = append(sheet.Rows, odsOutRowOf(anyCells(t.header.names)))
	}
	for _, row := range t.rows {
		sheet.Rows = append(sheet.Rows, odsOutRowOf(row.values))
	}
	doc := odsOutDocument{
		NSOffice: nsOffice,
		NSTable:  nsTable,
		NSText:   nsText,
		Version:  "1.2",
		Tables:   []odsOutTable{sheet},
	}

	zw := zip.NewWriter(f)
	// The mimetype entry must come first and be stored uncompressed.
	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(mw, odsMimeType); err != nil {
		return err
	}
	manifest, err := zw.Create("META-INF/manifest.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(manifest, odsManifest); err != nil {
		return err
	}
	content, err := zw.Create("content.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(content, xml.Header); err != nil {
		return err
	}
	if err := xml.NewEncoder(content).Encode(doc); err != nil {
		return fmt.Errorf("encode content.xml: %w", err)
	}
	return zw.Close()
}
