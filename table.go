package tabler

import (
	"cmp"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Table is an in-memory grid of cells under a header. A table is not safe
// for concurrent use; confine each one to a single owner.
type Table struct {
	header    *Header
	rows      []*Row
	rowLength int
	adapter   Adapter
}

type config struct {
	path    string
	hasPath bool
	adapter Adapter
	header  []string
	data    [][]any
	hasData bool
}

// Option configures [New].
type Option func(*config)

// FromFile loads the table from path. It takes precedence over [WithData].
func FromFile(path string) Option {
	return func(c *config) {
		c.path = path
		c.hasPath = true
	}
}

// WithAdapter binds a to the table. It is used to open the file given by
// [FromFile] and for every later write that does not name an adapter.
func WithAdapter(a Adapter) Option {
	return func(c *config) { c.adapter = a }
}

// WithData loads the table from header and data.
func WithData(header []string, data [][]any) Option {
	return func(c *config) {
		c.header = header
		c.data = data
		c.hasData = true
	}
}

// New builds a table from a file or from header and data. Without either it
// returns [ErrConfiguration].
func New(opts ...Option) (*Table, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	t := &Table{header: newHeader(nil), adapter: cfg.adapter}
	switch {
	case cfg.hasPath:
		if err := t.open(cfg.path); err != nil {
			return nil, err
		}
	case cfg.hasData:
		t.Load(cfg.header, cfg.data)
	default:
		return nil, ErrConfiguration
	}
	return t, nil
}

// Open is shorthand for New(FromFile(path), opts...).
func Open(path string, opts ...Option) (*Table, error) {
	return New(append(opts, FromFile(path))...)
}

// FromRows is shorthand for New(WithData(header, data)).
func FromRows(header []string, data [][]any) (*Table, error) {
	return New(WithData(header, data))
}

func (t *Table) open(p string) error {
	if t.adapter == nil {
		a, err := adapterForPath(p)
		if err != nil {
			return err
		}
		t.adapter = a
	}
	header, rows, err := open(t.adapter, p)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	t.Load(header, rows)
	logger().Debug("loaded table", "path", p, "rows", len(t.rows), "columns", t.header.Len())
	return nil
}

func adapterForPath(p string) (Adapter, error) {
	remote := isURL(p)
	ext := filepath.Ext(p)
	if remote {
		if u, err := url.Parse(p); err == nil {
			ext = path.Ext(u.Path)
		}
	}
	a, err := ForExtension(ext)
	if err != nil {
		return nil, fmt.Errorf("no adapter for extension %q: %w", ext, err)
	}
	if c, ok := a.(*CSV); ok && remote {
		return &RemoteCSV{Delimiter: c.Delimiter, Encoding: c.Encoding}, nil
	}
	return a, nil
}

func isURL(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load replaces the table's contents with header and data, normalized so
// every row has one cell per column:
//
//   - blank header labels become "Unlabeled Column N", and further labels
//     are added until the header is as wide as the widest row
//   - blank cells (nil or "") become the bound adapter's empty value, or
//     nil when no adapter is bound
//   - short rows are padded on the right; long rows are kept whole
func (t *Table) Load(header []string, data [][]any) {
	width := len(header)
	for _, row := range data {
		width = max(width, len(row))
	}
	var empty any
	if t.adapter != nil {
		empty = t.adapter.EmptyValue()
	}
	h := newHeader(normalizeHeader(header, width))
	rows := make([]*Row, len(data))
	for i, raw := range data {
		values := make([]any, width)
		for j := range values {
			if j < len(raw) && !isBlank(raw[j]) {
				values[j] = raw[j]
			} else {
				values[j] = empty
			}
		}
		rows[i] = &Row{values: values, header: h}
	}
	t.header = h
	t.rows = rows
	t.rowLength = width
}

// Write writes the table to path with the bound adapter, or the adapter
// registered for the path's extension. See [Table.WriteAs].
func (t *Table) Write(path string) (string, error) {
	return t.WriteAs(path, nil)
}

// WriteAs writes the table to path with a. When a is nil the bound adapter
// is used, then the one registered for the path's extension. If the
// adapter's extension differs from the path's, the path's extension is
// replaced. WriteAs returns the path written.
func (t *Table) WriteAs(path string, a Adapter) (string, error) {
	if a == nil {
		a = t.adapter
	}
	if a == nil {
		ext := filepath.Ext(path)
		var err error
		if a, err = ForExtension(ext); err != nil {
			return "", fmt.Errorf("no adapter for extension %q: %w", ext, err)
		}
	}
	path = withExtension(path, a.Extension())
	if err := write(a, t, path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	logger().Info("wrote table", "path", path, "rows", len(t.rows), "format", a.Extension())
	return path, nil
}

func withExtension(path, ext string) string {
	cur := filepath.Ext(path)
	if strings.EqualFold(cur, ext) {
		return path
	}
	return strings.TrimSuffix(path, cur) + ext
}

// Empty removes the header and every row.
func (t *Table) Empty() {
	t.header = newHeader(nil)
	t.rows = nil
	t.rowLength = 0
}

// IsEmpty reports whether the table has neither header nor rows.
func (t *Table) IsEmpty() bool {
	return t.header.Len() == 0 && len(t.rows) == 0
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the row at position i. Negative positions count from the
// end.
func (t *Table) Row(i int) (*Row, bool) {
	j, ok := position(int64(i), len(t.rows))
	if !ok {
		return nil, false
	}
	return t.rows[j], true
}

// Header returns a copy of the column labels.
func (t *Table) Header() []string { return t.header.Names() }

// Adapter returns the bound adapter, or nil.
func (t *Table) Adapter() Adapter { return t.adapter }

// Append adds a row. values must have exactly one cell per column; they
// are not normalized.
func (t *Table) Append(values []any) error {
	if len(values) != t.header.Len() {
		return fmt.Errorf("%w: %d values for %d columns", ErrRowWidth, len(values), t.header.Len())
	}
	t.rows = append(t.rows, &Row{values: slices.Clone(values), header: t.header})
	return nil
}

// AppendRow adds a copy of r bound to this table's header.
func (t *Table) AppendRow(r *Row) error {
	return t.Append(r.values)
}

// Column returns the value at key for every row, in row order.
func (t *Table) Column(key any) ([]any, error) {
	i, err := t.header.resolve(key, t.header.Len())
	if err != nil {
		return nil, err
	}
	out := make([]any, len(t.rows))
	for j, row := range t.rows {
		out[j] = row.values[i]
	}
	return out, nil
}

// RemoveColumn deletes a column from the header and from every row.
func (t *Table) RemoveColumn(key any) error {
	i, err := t.header.resolve(key, t.header.Len())
	if err != nil {
		return err
	}
	for _, row := range t.rows {
		row.removeAt(i)
	}
	t.header.names = slices.Delete(t.header.names, i, i+1)
	t.rowLength = t.header.Len()
	return nil
}

// RenameColumn relabels a column. Rows already handed out resolve the new
// name.
func (t *Table) RenameColumn(key any, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidColumnName)
	}
	i, err := t.header.resolve(key, t.header.Len())
	if err != nil {
		return err
	}
	t.header.names[i] = name
	return nil
}

// Sort orders rows by the column at key. If every value in the column
// reads as a number the sort is numeric; otherwise the raw values are
// compared. The sort is stable in both directions.
func (t *Table) Sort(key any, ascending bool) error {
	col, err := t.header.resolve(key, t.header.Len())
	if err != nil {
		return err
	}
	type sortItem struct {
		row *Row
		num float64
	}
	items := make([]sortItem, len(t.rows))
	numeric := true
	for i, row := range t.rows {
		items[i].row = row
		f, ok := toFloat(row.values[col])
		if !ok {
			numeric = false
		}
		items[i].num = f
	}
	compare := func(a, b sortItem) int {
		if numeric {
			return cmp.Compare(a.num, b.num)
		}
		return compareRaw(a.row.values[col], b.row.values[col])
	}
	if !ascending {
		asc := compare
		compare = func(a, b sortItem) int { return asc(b, a) }
	}
	slices.SortStableFunc(items, compare)
	for i, item := range items {
		t.rows[i] = item.row
	}
	return nil
}

// Sorted returns a sorted copy, leaving t untouched.
func (t *Table) Sorted(key any, ascending bool) (*Table, error) {
	c := t.Copy()
	if err := c.Sort(key, ascending); err != nil {
		return nil, err
	}
	return c, nil
}

// SplitByRowCount partitions the rows into consecutive tables of n rows;
// the last may be shorter. Each table gets its own copy of the header.
func (t *Table) SplitByRowCount(n int) ([]*Table, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRowCount, n)
	}
	out := make([]*Table, 0, (len(t.rows)+n-1)/n)
	for start := 0; start < len(t.rows); start += n {
		out = append(out, t.withRows(t.rows[start:min(start+n, len(t.rows))]))
	}
	return out, nil
}

// Copy returns a table with the same labels and adapter and independent
// rows.
func (t *Table) Copy() *Table {
	return t.withRows(t.rows)
}

func (t *Table) withRows(rows []*Row) *Table {
	h := newHeader(t.header.names)
	out := &Table{header: h, rowLength: t.rowLength, adapter: t.adapter, rows: make([]*Row, len(rows))}
	for i, row := range rows {
		out.rows[i] = &Row{values: slices.Clone(row.values), header: h}
	}
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("Table containing %d columns and %d rows\nColumn headings: %s",
		t.header.Len(), len(t.rows), strings.Join(t.header.names, ", "))
}
