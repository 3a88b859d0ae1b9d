package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"revxcli/pkg/contracts/domain"
)

// RequiredColumns is the column contract every input table must satisfy.
// Matching is case-sensitive and checked against the full set so a
// SchemaError can list every absent column at once.
var RequiredColumns = []string{
	"broker",
	"period",
	"sales",
	"ebitda",
	"pat",
	"expected_sales",
	"expected_ebitda",
	"expected_pat",
}

// NumericColumns are the columns coerced to float64 during validation.
var NumericColumns = []string{
	"sales",
	"ebitda",
	"pat",
	"expected_sales",
	"expected_ebitda",
	"expected_pat",
}

// ColumnPickedType is the optional rating-tag column.
const ColumnPickedType = "picked_type"

// Validator checks raw tables against the required-column contract and
// coerces numeric cells. Validation is all-or-nothing: either every row
// passes and the batch proceeds, or the load fails before any enrichment.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a schema validator.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger.With(slog.String("component", "schema_validator"))}
}

// Validate checks the table's columns and coerces its numeric cells,
// returning validated rows in source order. It fails with *SchemaError
// when required columns are missing and with *CoercionError on the first
// cell that cannot be parsed as a finite number.
func (v *Validator) Validate(ctx context.Context, table domain.Table) ([]domain.ResultRow, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if table.ColumnIndex(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		v.logger.WarnContext(ctx, "input table failed schema validation",
			slog.String("source", table.Source),
			slog.Any("missing_columns", missing))
		return nil, &SchemaError{MissingColumns: missing, Source: table.Source}
	}

	idx := make(map[string]int, len(RequiredColumns)+1)
	for _, col := range RequiredColumns {
		idx[col] = table.ColumnIndex(col)
	}
	pickedIdx := table.ColumnIndex(ColumnPickedType)

	rows := make([]domain.ResultRow, 0, len(table.Rows))
	for i := range table.Rows {
		row := domain.ResultRow{
			Broker: strings.TrimSpace(table.Cell(i, idx["broker"])),
			Period: strings.TrimSpace(table.Cell(i, idx["period"])),
		}
		if pickedIdx >= 0 {
			row.PickedType = strings.TrimSpace(table.Cell(i, pickedIdx))
		}

		for _, col := range NumericColumns {
			raw := table.Cell(i, idx[col])
			val, err := parseNumericCell(raw)
			if err != nil {
				v.logger.WarnContext(ctx, "numeric coercion failed",
					slog.String("source", table.Source),
					slog.Int("row_index", i),
					slog.String("column", col),
					slog.String("raw_value", raw))
				return nil, &CoercionError{RowIndex: i, Column: col, RawValue: raw, Source: table.Source}
			}
			switch col {
			case "sales":
				row.Sales = val
			case "ebitda":
				row.EBITDA = val
			case "pat":
				row.PAT = val
			case "expected_sales":
				row.ExpectedSales = val
			case "expected_ebitda":
				row.ExpectedEBITDA = val
			case "expected_pat":
				row.ExpectedPAT = val
			}
		}
		rows = append(rows, row)
	}

	v.logger.DebugContext(ctx, "table validated",
		slog.String("source", table.Source),
		slog.Int("row_count", len(rows)))
	return rows, nil
}

// parseNumericCell parses a cell as a finite float64. Thousand separators
// are tolerated since broker sheets routinely carry them; NaN, infinities
// and empty cells are coercion failures, never silent zeros.
func parseNumericCell(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, strconv.ErrSyntax
	}
	return val, nil
}
