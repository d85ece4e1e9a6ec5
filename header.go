package tabler

import (
	"fmt"
	"math"
	"slices"
)

const unlabeledColumn = "Unlabeled Column %d"

// Header is the ordered set of column labels owned by a [Table]. Rows keep
// a pointer to their table's header, so a rename is seen by every row.
type Header struct {
	names []string
}

func newHeader(names []string) *Header {
	return &Header{names: slices.Clone(names)}
}

// Len returns the number of columns.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Names returns a copy of the column labels.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return slices.Clone(h.names)
}

// Index returns the position of the first column labelled name.
func (h *Header) Index(name string) (int, bool) {
	if h == nil {
		return -1, false
	}
	i := slices.Index(h.names, name)
	return i, i >= 0
}

// resolve turns a column key into a position within width cells. Any Go
// integer is a position; negative positions count from the end.
func (h *Header) resolve(key any, width int) (int, error) {
	if k, ok := key.(string); ok {
		i, ok := h.Index(k)
		if !ok || i >= width {
			return -1, fmt.Errorf("%w: %q", ErrColumnNotFound, k)
		}
		return i, nil
	}
	k, ok := intKey(key)
	if !ok {
		return -1, fmt.Errorf("%w: %T (%v)", ErrInvalidIndexType, key, key)
	}
	i, ok := position(k, width)
	if !ok {
		return -1, fmt.Errorf("%w: index %v out of range for %d columns", ErrColumnNotFound, key, width)
	}
	return i, nil
}

// intKey widens any Go integer to int64. Unsigned values past the int64
// range saturate, which is out of range for any table.
func intKey(key any) (int64, bool) {
	switch k := key.(type) {
	case int:
		return int64(k), true
	case int8:
		return int64(k), true
	case int16:
		return int64(k), true
	case int32:
		return int64(k), true
	case int64:
		return k, true
	case uint:
		return saturate(uint64(k)), true
	case uint8:
		return int64(k), true
	case uint16:
		return int64(k), true
	case uint32:
		return int64(k), true
	case uint64:
		return saturate(k), true
	default:
		return 0, false
	}
}

func saturate(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

// position maps k onto [0, n), counting negative k from the end.
func position(k int64, n int) (int, bool) {
	if k < 0 {
		k += int64(n)
	}
	if k < 0 || k >= int64(n) {
		return -1, false
	}
	return int(k), true
}

// normalizeHeader replaces blank labels and pads to width with
// auto-generated ones, numbered from 1 within this call.
func normalizeHeader(names []string, width int) []string {
	out := make([]string, 0, max(len(names), width))
	unlabeled := 0
	for _, name := range names {
		if name == "" {
			unlabeled++
			name = fmt.Sprintf(unlabeledColumn, unlabeled)
		}
		out = append(out, name)
	}
	for len(out) < width {
		unlabeled++
		out = append(out, fmt.Sprintf(unlabeledColumn, unlabeled))
	}
	return out
}
