package tabler

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const cellTimeLayout = "2006-01-02 15:04:05"

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// toFloat reports whether v reads as a number, parsing strings.
func toFloat(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return numericValue(v)
}

// numericValue converts Go numeric and bool values; strings are not parsed.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// compareRaw orders stored cell values: nil first, strings by bytes,
// numbers by value, times chronologically, anything else by its text.
func compareRaw(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs)
	}
	at, aTime := a.(time.Time)
	bt, bTime := b.(time.Time)
	if aTime && bTime {
		return at.Compare(bt)
	}
	if !aStr && !bStr {
		af, aNum := numericValue(a)
		bf, bNum := numericValue(b)
		if aNum && bNum {
			return cmp.Compare(af, bf)
		}
	}
	return strings.Compare(cellString(a), cellString(b))
}

// cellString is the text form of a cell used by text-based writers.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(cellTimeLayout)
	default:
		return fmt.Sprint(x)
	}
}

func stringCells(values []any) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = cellString(v)
	}
	return out
}

func anyCells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
