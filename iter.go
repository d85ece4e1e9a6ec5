package tabler

import "iter"

// All yields the row's cells in column order. Each call starts over.
func (r *Row) All() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range r.values {
			if !yield(v) {
				return
			}
		}
	}
}

// Rows yields each row with its position. Rows are live, so changes made
// through them affect the table.
func (t *Table) Rows() iter.Seq2[int, *Row] {
	return func(yield func(int, *Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// ColumnValues yields the value at key for every row, in row order. An
// unresolvable key yields nothing; use [Table.Column] to see the error.
func (t *Table) ColumnValues(key any) iter.Seq[any] {
	return func(yield func(any) bool) {
		i, err := t.header.resolve(key, t.header.Len())
		if err != nil {
			return
		}
		for _, row := range t.rows {
			if !yield(row.values[i]) {
				return
			}
		}
	}
}

// FromSeq collects rows from seq and loads them under header. The rows are
// normalized exactly as [Table.Load] does.
func FromSeq(header []string, seq iter.Seq[[]any], opts ...Option) (*Table, error) {
	data := make([][]any, 0)
	for row := range seq {
		data = append(data, row)
	}
	return New(append(opts, WithData(header, data))...)
}
