package tabler

// NewTSV returns a tab-delimited UTF-8 adapter with canonical extension
// ".tsv".
func NewTSV() *CSV {
	return &CSV{Delimiter: '\t', Ext: ".tsv"}
}
