package dataprocessing

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns absent from an input table. The
// full declared set is checked before failing so the message lists every
// missing column, not just the first.
type SchemaError struct {
	// MissingColumns holds the absent required columns in contract order.
	MissingColumns []string

	// Source is the origin label of the offending table, when known.
	Source string
}

func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("missing required columns: %s", strings.Join(e.MissingColumns, ", "))
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

// CoercionError reports a cell that could not be parsed as a finite
// number. It identifies the exact location so the caller can render a
// precise user-facing message.
type CoercionError struct {
	// RowIndex is the zero-based data row index (header excluded).
	RowIndex int

	// Column is the name of the offending column.
	Column string

	// RawValue is the cell content that failed to parse.
	RawValue string

	// Source is the origin label of the offending table, when known.
	Source string
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("row %d, column %q: cannot parse %q as a number", e.RowIndex, e.Column, e.RawValue)
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}
