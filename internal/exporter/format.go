package exporter

import (
	"fmt"

	"revxcli/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with exactly 2
// decimal places so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output.
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatNullFloat formats a possibly-undefined derived value. Undefined
// renders as an empty cell, never as 0 or NaN.
func formatNullFloat(n domain.NullFloat) string {
	return n.CSVCell(2)
}

// formatBps formats a basis-point differential without decimals.
func formatBps(n domain.NullFloat) string {
	return n.CSVCell(0)
}
