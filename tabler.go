package tabler

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Sentinel errors for programmatic error handling.
var (
	ErrConfiguration          = errors.New("table needs a path or a header and data")
	ErrExtensionNotRecognised = errors.New("extension not recognised")
	ErrInvalidIndexType       = errors.New("invalid index type")
	ErrNotSupported           = errors.New("not supported")
	ErrEmptyContent           = errors.New("empty content")
	ErrColumnNotFound         = errors.New("column not found")
	ErrInvalidColumnName      = errors.New("invalid column name")
	ErrRowWidth               = errors.New("row width does not match header")
	ErrInvalidRowCount        = errors.New("invalid row count")
	ErrSheetNotFound          = errors.New("sheet not found")
	ErrFetch                  = errors.New("fetch failed")
)

// --- Adapter Interfaces ---

// Adapter is a file format a [Table] can be read from or written to.
// Every adapter names its canonical extension and the value it uses for
// blank cells. Reading and writing are unlocked by [Opener] and [Writer].
type Adapter interface {
	// Extension returns the canonical extension, including the leading dot.
	Extension() string
	// EmptyValue is substituted for blank or missing cells on load.
	EmptyValue() any
}

// Opener reads a header and data rows from path. The first record of the
// file is the header; the rest are rows in file order.
type Opener interface {
	Open(path string) (header []string, rows [][]any, err error)
}

// Writer writes t to path. The path is used as given.
type Writer interface {
	Write(t *Table, path string) error
}

// --- Registry ---

type registry struct {
	mu       sync.RWMutex
	adapters map[string]func() Adapter
}

var adapters = &registry{adapters: make(map[string]func() Adapter)}

func init() {
	Register(func() Adapter { return NewCSV() }, ".csv", ".txt")
	Register(func() Adapter { return NewTSV() }, ".tsv")
	Register(func() Adapter { return NewXLSX() }, ".xlsx")
	Register(func() Adapter { return NewODS() }, ".ods")
	Register(func() Adapter { return NewHTML() }, ".html", ".htm")
	Register(func() Adapter { return NewMarkdown() }, ".md")
	Register(func() Adapter { return NewJSON() }, ".json")
	Register(func() Adapter { return NewYAML() }, ".yaml", ".yml")
}

// Register associates extensions with an adapter constructor. Extensions
// are matched case-insensitively and the leading dot is optional. A later
// registration for the same extension replaces the earlier one.
func Register(newAdapter func() Adapter, exts ...string) {
	adapters.mu.Lock()
	defer adapters.mu.Unlock()
	for _, ext := range exts {
		adapters.adapters[normalizeExt(ext)] = newAdapter
	}
}

// ForExtension returns a new adapter for ext, or an error wrapping
// [ErrExtensionNotRecognised].
func ForExtension(ext string) (Adapter, error) {
	adapters.mu.RLock()
	newAdapter, ok := adapters.adapters[normalizeExt(ext)]
	adapters.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrExtensionNotRecognised, ext)
	}
	return newAdapter(), nil
}

// Extensions returns all registered extensions in sorted order.
func Extensions() []string {
	adapters.mu.RLock()
	defer adapters.mu.RUnlock()
	out := make([]string, 0, len(adapters.adapters))
	for ext := range adapters.adapters {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func open(a Adapter, path string) ([]string, [][]any, error) {
	o, ok := a.(Opener)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %T cannot open files", ErrNotSupported, a)
	}
	return o.Open(path)
}

func write(a Adapter, t *Table, path string) error {
	w, ok := a.(Writer)
	if !ok {
		return fmt.Errorf("%w: %T cannot write files", ErrNotSupported, a)
	}
	return w.Write(t, path)
}
