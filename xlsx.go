package tabler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const defaultSheetName = "Sheet1"

// XLSX reads and writes Office Open XML workbooks. Numeric cells are read
// as float64, or time.Time when formatted as a date or time, and boolean
// cells as bool; everything else is a string.
type XLSX struct {
	// Sheet is the index of the worksheet read by Open. Default: 0.
	Sheet int
	// SheetName names the worksheet created by Write. Default: "Sheet1".
	SheetName string
}

// NewXLSX returns an adapter reading the first sheet and writing "Sheet1".
func NewXLSX() *XLSX {
	return &XLSX{SheetName: defaultSheetName}
}

func (x *XLSX) Extension() string { return ".xlsx" }

func (x *XLSX) EmptyValue() any { return nil }

func (x *XLSX) Open(path string) ([]string, [][]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if x.Sheet < 0 || x.Sheet >= len(sheets) {
		return nil, nil, fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, x.Sheet, len(sheets))
	}
	sheet := sheets[x.Sheet]

	records, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(records) == 0 {
		return nil, nil, nil
	}
	r := &xlsxReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	rows := make([][]any, len(records)-1)
	for i, rec := range records[1:] {
		row := make([]any, len(rec))
		for j, raw := range rec {
			// Data starts on spreadsheet row 2.
			row[j] = r.cellValue(j+1, i+2, raw)
		}
		rows[i] = row
	}
	return records[0], rows, nil
}

// xlsxReader types the raw cell text of one worksheet.
type xlsxReader struct {
	f          *excelize.File
	sheet      string
	date1904   bool
	dateStyles map[int]bool
}

func (r *xlsxReader) cellValue(col, row int, raw string) any {
	if raw == "" {
		return raw
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := r.f.GetCellType(r.sheet, ref)
	if err != nil {
		return raw
	}
	switch typ {
	case excelize.CellTypeBool:
		return raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return raw
		}
		if r.isDate(ref) {
			if tm, err := excelize.ExcelDateToTime(n, r.date1904); err == nil {
				return tm
			}
		}
		return n
	}
	return raw
}

// isDate reports whether the cell's number format shows a date or time.
func (r *xlsxReader) isDate(ref string) bool {
	idx, err := r.f.GetCellStyle(r.sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if d, ok := r.dateStyles[idx]; ok {
		return d
	}
	d := false
	if st, err := r.f.GetStyle(idx); err == nil {
		d = isDateNumFmt(st.NumFmt, st.CustomNumFmt)
	}
	r.dateStyles[idx] = d
	return d
}

// isDateNumFmt covers the built-in date and time formats, including the
// East Asian ones, and custom format codes.
func isDateNumFmt(id int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode looks for date or time tokens outside quoted literals,
// escapes and bracketed colours or locales. Elapsed-time brackets such as
// [h] count as time.
func isDateFormatCode(code string) bool {
	code = strings.ToLower(code)
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '\\':
			i++
		case c == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			if inner := code[i+1 : i+end]; inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		case c == 'y', c == 'm', c == 'd', c == 'h', c == 's':
			return true
		}
	}
	return false
}

func (x *XLSX) Write(t *Table, path string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	name := x.SheetName
	if name == "" {
		name = defaultSheetName
	}
	if name != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, name); err != nil {
			return err
		}
	}
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}

	rowNum := 1
	if t.header.Len() > 0 {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := sw.SetRow(cell, anyCells(t.header.names)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		rowNum++
	}
	for _, row := range t.rows {
		cell, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := sw.SetRow(cell, row.values); err != nil {
			return fmt.Errorf("write row %d: %w", rowNum, err)
		}
		rowNum++
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.SaveAs(path)
}
