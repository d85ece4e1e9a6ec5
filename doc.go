// Package tabler reads, edits and writes tabulated data.
//
// A [Table] holds a header and rows of cells. Tables are loaded from files
// through an [Adapter] chosen by file extension, or built directly from a
// header and data:
//
//	t, err := tabler.Open("prices.csv")
//	t, err := tabler.FromRows([]string{"SKU", "Price"}, [][]any{{"A1", 9.5}})
//
// # Normalization
//
// Every load pads ragged input so each row has one cell per column. Blank
// header labels become "Unlabeled Column N", the header is widened to the
// longest row, and blank cells take the adapter's empty value (nil when no
// adapter is bound). Long rows are never truncated.
//
// # Rows
//
// A [Row] addresses cells by column name or integer position:
//
//	price, err := row.Get("Price")
//	err = row.Set(0, "A2")
//
// Any other key type fails with [ErrInvalidIndexType]. Rows share their
// table's [Header], so [Table.RenameColumn] is seen by rows already in
// hand.
//
// # Adapters
//
// The package uses a layered interface design. [Adapter] names the
// canonical extension and the empty value; [Opener] and [Writer] unlock
// reading and writing:
//
//   - [CSV] → .csv, .txt (and [NewTSV] → .tsv), configurable delimiter and
//     encoding
//   - [RemoteCSV] → delimited text over HTTP(S), read only
//   - [XLSX] → .xlsx workbooks
//   - [ODS] → .ods OpenDocument spreadsheets
//   - [HTML] → .html, .htm, write only, rendered through html/template
//   - [Markdown] → .md, write only
//   - [JSON] → .json, [YAML] → .yaml, .yml
//
// Built-in adapters are registered at init. Use [Register] to add or
// replace one, and [ForExtension] to look one up:
//
//	tabler.Register(func() tabler.Adapter { return &tabler.CSV{Delimiter: ';'} }, ".csv")
//
// When writing, a path whose extension differs from the adapter's gets the
// adapter's extension: writing "out" as CSV produces "out.csv".
//
// # Sorting
//
// [Table.Sort] sorts numerically when every value in the column reads as a
// number and by raw value otherwise. Sorts are stable.
//
// # Errors
//
// The package exports sentinel errors for programmatic handling:
//
//   - [ErrConfiguration]: neither a path nor header and data given
//   - [ErrExtensionNotRecognised]: no adapter for an extension
//   - [ErrInvalidIndexType]: cell key is neither string nor integer
//   - [ErrNotSupported]: adapter cannot open or cannot write
//   - [ErrEmptyContent]: remote resource had no content
//   - [ErrColumnNotFound]: no such column
//   - [ErrRowWidth]: appended row does not match the header
//   - [ErrInvalidRowCount]: split size below one
//   - [ErrSheetNotFound]: sheet index outside the workbook
//   - [ErrFetch]: remote request failed
//   - [ErrInvalidColumnName]: empty column name
//
// # Logging
//
// Loads are logged at debug level and writes at info level through
// [log/slog]. Use [SetLogger] to route them elsewhere.
package tabler
