package domain

// Table is a raw, untyped tabular payload as handed over by an ingestion
// collaborator (CSV reader, Excel parser, HTTP upload). Cells are opaque
// strings; the schema validator owns required-column checking and numeric
// coercion. Row order is display-relevant and must be preserved by every
// stage that consumes a Table.
type Table struct {
	// Columns holds the header names exactly as they appeared in the
	// source, order preserved. Matching is case-sensitive.
	Columns []string `json:"columns"`

	// Rows holds the data cells, one slice per source row, aligned with
	// Columns. Short rows are legal; missing trailing cells read as "".
	Rows [][]string `json:"rows"`

	// Source is a human-readable origin label (file path, upload name)
	// carried through for error reporting only.
	Source string `json:"source,omitempty"`
}

// ColumnIndex returns the position of the named column, or -1 when the
// table does not carry it.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), tolerating ragged rows.
func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}
