package tabler

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errInternalWrite = errors.New("write failed")

type errWriterInternal struct{}

func (errWriterInternal) Write([]byte) (int, error) {
	return 0, errInternalWrite
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		names []string
		width int
		want  []string
	}{
		"unchanged": {
			names: []string{"a", "b"},
			width: 2,
			want:  []string{"a", "b"},
		},
		"blank labels": {
			names: []string{"", "b", ""},
			width: 3,
			want:  []string{"Unlabeled Column 1", "b", "Unlabeled Column 2"},
		},
		"padded": {
			names: []string{"a", ""},
			width: 4,
			want:  []string{"a", "Unlabeled Column 1", "Unlabeled Column 2", "Unlabeled Column 3"},
		},
		"no labels": {
			width: 2,
			want:  []string{"Unlabeled Column 1", "Unlabeled Column 2"},
		},
		"empty": {
			want: []string{},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeHeader(tt.names, tt.width))
		})
	}
}

func TestHeaderResolve(t *testing.T) {
	t.Parallel()
	h := newHeader([]string{"a", "b", "a"})
	tests := map[string]struct {
		key     any
		width   int
		want    int
		wantErr error
	}{
		"name":               {key: "b", width: 3, want: 1},
		"duplicate name":     {key: "a", width: 3, want: 0},
		"index":              {key: 2, width: 3, want: 2},
		"negative index":     {key: -1, width: 3, want: 2},
		"index out of range": {key: 3, width: 3, wantErr: ErrColumnNotFound},
		"too negative":       {key: -4, width: 3, wantErr: ErrColumnNotFound},
		"name beyond width":  {key: "b", width: 1, wantErr: ErrColumnNotFound},
		"unknown name":       {key: "z", width: 3, wantErr: ErrColumnNotFound},
		"int64 index":        {key: int64(1), width: 3, want: 1},
		"uint16 index":       {key: uint16(2), width: 3, want: 2},
		"int8 negative":      {key: int8(-3), width: 3, want: 0},
		"saturated unsigned": {key: uint64(1 << 63), width: 3, wantErr: ErrColumnNotFound},
		"float key":          {key: 1.0, width: 3, wantErr: ErrInvalidIndexType},
		"nil key":            {key: nil, width: 3, wantErr: ErrInvalidIndexType},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := h.resolve(tt.key, tt.width)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNilHeader(t *testing.T) {
	t.Parallel()
	var h *Header
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Names())
	_, ok := h.Index("a")
	assert.False(t, ok)
}

func TestNormalizeExt(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   string
		want string
	}{
		"dotted":    {in: ".csv", want: ".csv"},
		"no dot":    {in: "csv", want: ".csv"},
		"upper":     {in: ".XLSX", want: ".xlsx"},
		"spaces":    {in: " md ", want: ".md"},
		"empty":     {in: "", want: ""},
		"multi dot": {in: "tar.gz", want: ".tar.gz"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, normalizeExt(tt.in))
		})
	}
}

func TestWithExtension(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		path string
		ext  string
		want string
	}{
		"matches":        {path: "out.csv", ext: ".csv", want: "out.csv"},
		"case differs":   {path: "out.CSV", ext: ".csv", want: "out.CSV"},
		"replaced":       {path: "out.txt", ext: ".csv", want: "out.csv"},
		"added":          {path: "out", ext: ".xlsx", want: "out.xlsx"},
		"last only":      {path: "dir.v1/out.tar", ext: ".ods", want: "dir.v1/out.ods"},
		"dotted dirname": {path: "dir.v1/out", ext: ".md", want: "dir.v1/out.md"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, withExtension(tt.path, tt.ext))
		})
	}
}

func TestAdapterForPath(t *testing.T) {
	t.Parallel()
	a, err := adapterForPath("https://example.com/data/file.TSV?x=1")
	require.NoError(t, err)
	remote, ok := a.(*RemoteCSV)
	require.True(t, ok)
	assert.Equal(t, '\t', remote.Delimiter)

	a, err = adapterForPath("https://example.com/book.xlsx")
	require.NoError(t, err)
	assert.IsType(t, &XLSX{}, a)

	a, err = adapterForPath("local/file.csv")
	require.NoError(t, err)
	assert.IsType(t, &CSV{}, a)

	_, err = adapterForPath("https://example.com/")
	require.ErrorIs(t, err, ErrExtensionNotRecognised)
}

func TestToFloat(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in     any
		want   float64
		wantOK bool
	}{
		"int":          {in: 3, want: 3, wantOK: true},
		"uint8":        {in: uint8(7), want: 7, wantOK: true},
		"float32":      {in: float32(1.5), want: 1.5, wantOK: true},
		"numeric text": {in: " 2.25 ", want: 2.25, wantOK: true},
		"exponent":     {in: "1e3", want: 1000, wantOK: true},
		"bool":         {in: true, want: 1, wantOK: true},
		"text":         {in: "abc"},
		"empty text":   {in: ""},
		"nil":          {in: nil},
		"slice":        {in: []int{1}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, ok := toFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestCompareRaw(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		a, b any
		want int
	}{
		"both nil":        {a: nil, b: nil, want: 0},
		"nil first":       {a: nil, b: "a", want: -1},
		"nil last":        {a: 0, b: nil, want: 1},
		"strings bytes":   {a: "10", b: "2", want: -1},
		"upper before":    {a: "Z", b: "a", want: -1},
		"numbers":         {a: 2, b: 10.5, want: -1},
		"equal numbers":   {a: 3, b: 3.0, want: 0},
		"mixed uses text": {a: 10, b: "9", want: -1},
		"bools":           {a: true, b: false, want: 1},
		"times":           {a: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), b: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), want: 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, compareRaw(tt.a, tt.b))
		})
	}
}

func TestCellString(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		in   any
		want string
	}{
		"nil":     {in: nil, want: ""},
		"string":  {in: "x", want: "x"},
		"int":     {in: 42, want: "42"},
		"float":   {in: 2.5, want: "2.5"},
		"whole":   {in: 3.0, want: "3"},
		"large":   {in: 893275023572039.0, want: "893275023572039"},
		"float32": {in: float32(0.1), want: "0.1"},
		"bool":    {in: false, want: "false"},
		"time":    {in: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), want: "2024-01-02 03:04:05"},
		"slice":   {in: []string{"a"}, want: "[a]"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cellString(tt.in))
		})
	}
}

func TestExpandODSCells(t *testing.T) {
	t.Parallel()
	text := func(s string) odsCell { return odsCell{ValueType: "string", Paragraphs: []odsParagraph{odsParagraph(s)}} }
	tests := map[string]struct {
		cells []odsCell
		want  []any
	}{
		"plain": {
			cells: []odsCell{text("a"), text("b")},
			want:  []any{"a", "b"},
		},
		"interior blanks": {
			cells: []odsCell{text("a"), {Repeat: 2}, text("b")},
			want:  []any{"a", "", "", "b"},
		},
		"trailing padding dropped": {
			cells: []odsCell{text("a"), {Repeat: 16384}},
			want:  []any{"a"},
		},
		"repeated value": {
			cells: []odsCell{{ValueType: "float", Value: "1.5", Repeat: 3}},
			want:  []any{1.5, 1.5, 1.5},
		},
		"typed": {
			cells: []odsCell{
				{ValueType: "boolean", BoolValue: "true"},
				{ValueType: "date", DateValue: "2024-01-02"},
				{ValueType: "percentage", Value: "0.5"},
				{Paragraphs: []odsParagraph{"line1", "line2"}},
				{ValueType: "date", DateValue: "not a date"},
			},
			want: []any{true, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 0.5, "line1\nline2", "not a date"},
		},
		"all blank": {
			cells: []odsCell{{Repeat: 5}},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, expandODSCells(tt.cells))
		})
	}
}

func TestODSParagraph(t *testing.T) {
	t.Parallel()
	const ns = `xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"`
	tests := map[string]struct {
		body string
		want string
	}{
		"plain":         {body: `abc`, want: "abc"},
		"span":          {body: `foo<text:span>bar</text:span>`, want: "foobar"},
		"nested spans":  {body: `<text:span>a<text:span>b</text:span></text:span>c`, want: "abc"},
		"space default": {body: `a<text:s/>b`, want: "a b"},
		"space count":   {body: `a<text:s text:c="4"/>b`, want: "a    b"},
		"bad count":     {body: `a<text:s text:c="x"/>b`, want: "a b"},
		"tab and break": {body: `a<text:tab/>b<text:line-break/>c`, want: "a\tb\nc"},
		"link":          {body: `<text:a>here</text:a>`, want: "here"},
		"annotation":    {body: `x<office:annotation><text:p>note</text:p></office:annotation>y`, want: "xy"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var p odsParagraph
			src := `<text:p ` + ns + `>` + tt.body + `</text:p>`
			require.NoError(t, xml.NewDecoder(strings.NewReader(src)).Decode(&p))
			assert.Equal(t, tt.want, string(p))
		})
	}
}

func TestIsDateFormatCode(t *testing.T) {
	t.Parallel()
	tests := map[string]bool{
		"yyyy-mm-dd":          true,
		"d/m/yy h:mm":         true,
		"[h]:mm:ss":           true,
		"[$-409]mmmm d, yyyy": true,
		"General":             false,
		"0.00":                false,
		"#,##0;[Red]-#,##0":   false,
		`0.0 "days"`:          false,
		`0\h`:                 false,
		"0.00E+00":            false,
	}
	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, want, isDateFormatCode(code))
		})
	}
}

func TestIsDateNumFmt(t *testing.T) {
	t.Parallel()
	custom := "hh:mm"
	empty := ""
	assert.True(t, isDateNumFmt(14, nil))
	assert.True(t, isDateNumFmt(22, nil))
	assert.True(t, isDateNumFmt(46, nil))
	assert.False(t, isDateNumFmt(0, nil))
	assert.False(t, isDateNumFmt(4, nil))
	assert.True(t, isDateNumFmt(164, &custom))
	assert.False(t, isDateNumFmt(2, &empty))
}

func TestExpandODSRows(t *testing.T) {
	t.Parallel()
	text := func(s string) odsCell { return odsCell{ValueType: "string", Paragraphs: []odsParagraph{odsParagraph(s)}} }
	rows := []odsRow{
		{Cells: []odsCell{text("h")}},
		{Cells: []odsCell{{Repeat: 3}}},
		{Cells: []odsCell{text("x")}, Repeat: 2},
		{Cells: []odsCell{{Repeat: 1024}}, Repeat: 1048570},
	}
	assert.Equal(t, [][]any{{"h"}, {}, {"x"}, {"x"}}, expandODSRows(rows))
}

func TestRenderWriteErrors(t *testing.T) {
	t.Parallel()
	tbl, err := FromRows([]string{"a"}, [][]any{{"x"}})
	require.NoError(t, err)
	tests := map[string]func() error{
		"print":    func() error { return tbl.Print(errWriterInternal{}) },
		"plain":    func() error { return tbl.PrintWith(errWriterInternal{}, PrintOptions{Border: BorderNone}) },
		"markdown": func() error { return NewMarkdown().Render(errWriterInternal{}, tbl) },
		"html":     func() error { return NewHTML().Render(errWriterInternal{}, tbl) },
	}
	for name, fn := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.ErrorIs(t, fn(), errInternalWrite)
		})
	}
}

func TestColumnAligns(t *testing.T) {
	t.Parallel()
	tbl, err := FromRows([]string{"n", "s", "mixed", "short"}, [][]any{
		{1, "a", 2, 1},
		{2.5, "b", "3"},
	})
	require.NoError(t, err)
	assert.Equal(t, []Alignment{AlignRight, AlignLeft, AlignLeft, AlignLeft}, tbl.columnAligns(4))
}
