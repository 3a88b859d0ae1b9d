package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revxcli/internal/config"
	"revxcli/internal/dataprocessing"
	"revxcli/pkg/contracts/domain"
)

func sampleTable() domain.Table {
	return domain.Table{
		Source: "results.csv",
		Columns: []string{
			"broker", "period", "sales", "ebitda", "pat",
			"expected_sales", "expected_ebitda", "expected_pat", "picked_type",
		},
		Rows: [][]string{
			{"Axis", "Q3FY25", "100", "20", "10", "100", "18", "10", "Top Pick"},
			{"HDFC", "Q3FY25", "95", "17", "9", "100", "18", "10", "Neutral"},
			{"Axis", "Q4FY25", "210", "40", "22", "200", "42", "20", "Top Pick"},
		},
	}
}

func newService() *ComparisonService {
	return NewComparisonService(config.AnalysisConfig{BeatThresholdPct: 2.0}, nil)
}

func TestCompare_FullPipeline(t *testing.T) {
	result, err := newService().Compare(context.Background(), sampleTable(), CompareOptions{})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 2.0, result.ThresholdPct)
	require.Len(t, result.Rows, 3)

	// Row order follows the input.
	assert.Equal(t, "Axis", result.Rows[0].Broker)
	assert.Equal(t, "HDFC", result.Rows[1].Broker)

	// Worked example: EBITDA 20 vs 18 beats the 2% band.
	assert.Equal(t, domain.FlagBeat, result.Rows[0].EBITDADiff.Flag)
	assert.Equal(t, 1, result.Rows[0].TotalBeats)

	// Groups in first-seen order.
	require.Len(t, result.Summary.Groups, 2)
	assert.Equal(t, "Axis", result.Summary.Groups[0].Broker)
	assert.Equal(t, "HDFC", result.Summary.Groups[1].Broker)
	assert.Equal(t, 2, result.Summary.Groups[0].Rows)
}

func TestCompare_SchemaFailureBeforeEnrichment(t *testing.T) {
	table := sampleTable()
	table.Columns = table.Columns[:4] // drop pat and the expected_* columns

	result, err := newService().Compare(context.Background(), table, CompareOptions{})
	require.Error(t, err)
	assert.Nil(t, result)

	var schemaErr *dataprocessing.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.MissingColumns, "pat")
}

func TestCompare_ThresholdOverride(t *testing.T) {
	// At T=20 the 11.1% EBITDA surprise is merely Inline.
	result, err := newService().Compare(context.Background(), sampleTable(), CompareOptions{ThresholdPct: 20})
	require.NoError(t, err)

	assert.Equal(t, 20.0, result.ThresholdPct)
	assert.Equal(t, domain.FlagInline, result.Rows[0].EBITDADiff.Flag)
	assert.Zero(t, result.Rows[0].TotalBeats)
}

func TestCompare_FilterNarrowsSummaryOnly(t *testing.T) {
	result, err := newService().Compare(context.Background(), sampleTable(), CompareOptions{
		Filter: dataprocessing.Filter{Brokers: []string{"HDFC"}},
	})
	require.NoError(t, err)

	// Full enriched sequence still returned.
	assert.Len(t, result.Rows, 3)
	require.Len(t, result.FilteredRows, 1)
	assert.Equal(t, "HDFC", result.FilteredRows[0].Broker)

	require.Len(t, result.Summary.Groups, 1)
	assert.Equal(t, "HDFC", result.Summary.Groups[0].Broker)
}

func TestCompare_FacetOverride(t *testing.T) {
	facet := true
	result, err := newService().Compare(context.Background(), sampleTable(), CompareOptions{FacetByPickedType: &facet})
	require.NoError(t, err)
	assert.True(t, result.Summary.FacetedByPickedType)
}

func TestCompare_Idempotent(t *testing.T) {
	svc := newService()
	first, err := svc.Compare(context.Background(), sampleTable(), CompareOptions{})
	require.NoError(t, err)
	second, err := svc.Compare(context.Background(), sampleTable(), CompareOptions{})
	require.NoError(t, err)

	// Run IDs differ; everything computed is identical.
	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Rows, second.Rows)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestRollup(t *testing.T) {
	svc := newService()
	result, err := svc.Compare(context.Background(), sampleTable(), CompareOptions{})
	require.NoError(t, err)

	q3 := dataprocessing.FilterRows(result.Rows, dataprocessing.Filter{})[:2]
	rollup := svc.Rollup(context.Background(), "TATAMOTORS", q3)

	assert.Equal(t, "TATAMOTORS", rollup.Company)
	require.True(t, rollup.ExpSalesAvg.Valid)
	assert.InDelta(t, 100.0, rollup.ExpSalesAvg.Float64, 1e-9)
	assert.InDelta(t, 100.0, rollup.ActSales.Float64, 1e-9)
}
