package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revxcli/pkg/contracts/domain"
)

func fullColumns() []string {
	return []string{
		"broker", "period", "sales", "ebitda", "pat",
		"expected_sales", "expected_ebitda", "expected_pat", "picked_type",
	}
}

func TestValidate_MissingColumns(t *testing.T) {
	tests := []struct {
		name        string
		columns     []string
		wantMissing []string
	}{
		{
			name:        "missing pat",
			columns:     []string{"broker", "period", "sales", "ebitda", "expected_sales", "expected_ebitda", "expected_pat"},
			wantMissing: []string{"pat"},
		},
		{
			name:        "missing several columns reported together",
			columns:     []string{"broker", "period", "sales"},
			wantMissing: []string{"ebitda", "pat", "expected_sales", "expected_ebitda", "expected_pat"},
		},
		{
			name:        "column matching is case sensitive",
			columns:     []string{"Broker", "period", "sales", "ebitda", "pat", "expected_sales", "expected_ebitda", "expected_pat"},
			wantMissing: []string{"broker"},
		},
	}

	validator := NewValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validator.Validate(context.Background(), domain.Table{Columns: tt.columns})
			require.Error(t, err)

			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			assert.Equal(t, tt.wantMissing, schemaErr.MissingColumns)
			for _, col := range tt.wantMissing {
				assert.Contains(t, err.Error(), col)
			}
		})
	}
}

func TestValidate_CoercesNumericCells(t *testing.T) {
	table := domain.Table{
		Columns: fullColumns(),
		Rows: [][]string{
			{"Axis", "Q3FY25", "1,250.50", "300", "150.25", "1200", "280", "140", "Top Pick"},
			{"HDFC", "Q3FY25", "-50", "0", "10", "-40", "5", "12", "Neutral"},
		},
	}

	rows, err := NewValidator(nil).Validate(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Axis", rows[0].Broker)
	assert.Equal(t, "Q3FY25", rows[0].Period)
	assert.Equal(t, "Top Pick", rows[0].PickedType)
	assert.InDelta(t, 1250.50, rows[0].Sales, 1e-9)
	assert.InDelta(t, 150.25, rows[0].PAT, 1e-9)

	// Negative and zero values coerce like any other number.
	assert.Equal(t, -50.0, rows[1].Sales)
	assert.Equal(t, 0.0, rows[1].EBITDA)
	assert.Equal(t, -40.0, rows[1].ExpectedSales)
}

func TestValidate_CoercionFailure(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		wantRow  int
		wantCol  string
	}{
		{name: "alphabetic cell", cell: "n/a", wantRow: 1, wantCol: "ebitda"},
		{name: "empty cell", cell: "", wantRow: 1, wantCol: "ebitda"},
		{name: "NaN literal rejected", cell: "NaN", wantRow: 1, wantCol: "ebitda"},
		{name: "infinity rejected", cell: "+Inf", wantRow: 1, wantCol: "ebitda"},
	}

	validator := NewValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.Table{
				Source:  "upload.csv",
				Columns: fullColumns(),
				Rows: [][]string{
					{"Axis", "Q3FY25", "100", "20", "10", "100", "18", "10", ""},
					{"HDFC", "Q3FY25", "100", tt.cell, "10", "100", "18", "10", ""},
				},
			}

			_, err := validator.Validate(context.Background(), table)
			require.Error(t, err)

			var coercionErr *CoercionError
			require.ErrorAs(t, err, &coercionErr)
			assert.Equal(t, tt.wantRow, coercionErr.RowIndex)
			assert.Equal(t, tt.wantCol, coercionErr.Column)
			assert.Equal(t, tt.cell, coercionErr.RawValue)
			assert.Equal(t, "upload.csv", coercionErr.Source)
		})
	}
}

func TestValidate_PreservesRowOrder(t *testing.T) {
	table := domain.Table{
		Columns: fullColumns(),
		Rows: [][]string{
			{"Zerodha", "Q1", "1", "1", "1", "1", "1", "1", ""},
			{"Axis", "Q1", "2", "2", "2", "2", "2", "2", ""},
			{"Motilal", "Q1", "3", "3", "3", "3", "3", "3", ""},
			{"Axis", "Q2", "4", "4", "4", "4", "4", "4", ""},
		},
	}

	rows, err := NewValidator(nil).Validate(context.Background(), table)
	require.NoError(t, err)

	brokers := make([]string, len(rows))
	for i, r := range rows {
		brokers[i] = r.Broker
	}
	assert.Equal(t, []string{"Zerodha", "Axis", "Motilal", "Axis"}, brokers)
}

func TestValidate_PickedTypeOptional(t *testing.T) {
	table := domain.Table{
		Columns: fullColumns()[:8], // without picked_type
		Rows: [][]string{
			{"Axis", "Q3FY25", "100", "20", "10", "100", "18", "10"},
		},
	}

	rows, err := NewValidator(nil).Validate(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Empty(t, rows[0].PickedType)
}
