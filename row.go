package tabler

import (
	"fmt"
	"slices"
	"strings"
)

// Row is one record of a [Table]. Cells are addressed by column name or
// by position; negative positions count from the end.
type Row struct {
	values []any
	header *Header
}

// NewRow binds values to header. values must not be wider than header.
func NewRow(values []any, header *Header) (*Row, error) {
	if len(values) > header.Len() {
		return nil, fmt.Errorf("%w: %d values for %d columns", ErrRowWidth, len(values), header.Len())
	}
	return &Row{values: slices.Clone(values), header: header}, nil
}

// Len returns the number of cells.
func (r *Row) Len() int { return len(r.values) }

// Header returns the header the row resolves names against.
func (r *Row) Header() *Header { return r.header }

// Get returns the cell at key, a column name or an int position.
func (r *Row) Get(key any) (any, error) {
	i, err := r.header.resolve(key, len(r.values))
	if err != nil {
		return nil, err
	}
	return r.values[i], nil
}

// Set replaces the cell at key.
func (r *Row) Set(key any, v any) error {
	i, err := r.header.resolve(key, len(r.values))
	if err != nil {
		return err
	}
	r.values[i] = v
	return nil
}

// RemoveColumn deletes the cell at key. The header is left alone; keeping
// it in step is the table's job.
func (r *Row) RemoveColumn(key any) error {
	i, err := r.header.resolve(key, len(r.values))
	if err != nil {
		return err
	}
	r.removeAt(i)
	return nil
}

func (r *Row) removeAt(i int) {
	r.values = slices.Delete(r.values, i, i+1)
}

// Values returns a copy of the cells in column order.
func (r *Row) Values() []any { return slices.Clone(r.values) }

// Copy returns a row with its own cells bound to the same header.
func (r *Row) Copy() *Row {
	return &Row{values: slices.Clone(r.values), header: r.header}
}

func (r *Row) String() string {
	return "[" + strings.Join(stringCells(r.values), ", ") + "]"
}
