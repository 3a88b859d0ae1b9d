package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revxcli/internal/dataprocessing"
	"revxcli/pkg/contracts/domain"
)

func sampleEnriched(t *testing.T) []domain.EnrichedRow {
	t.Helper()
	calc := dataprocessing.NewCalculator(dataprocessing.DefaultCalculatorConfig(), nil)
	return calc.ComputeAll(context.Background(), []domain.ResultRow{
		{Broker: "Axis", Period: "Q3FY25", Sales: 100, EBITDA: 20, PAT: 10,
			ExpectedSales: 100, ExpectedEBITDA: 18, ExpectedPAT: 10, PickedType: "Top Pick"},
		{Broker: "HDFC", Period: "Q3FY25", Sales: 0, EBITDA: 10, PAT: 5,
			ExpectedSales: 100, ExpectedEBITDA: 18, ExpectedPAT: 0},
	})
}

func TestWriteEnriched(t *testing.T) {
	rows := sampleEnriched(t)

	var buf bytes.Buffer
	exp := NewResultsExporter(NewCSVWriter(nil))
	require.NoError(t, exp.WriteEnriched(&buf, rows))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\xEF\xBB\xBF"), "expected UTF-8 BOM prefix")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(EnrichedHeaders, ","), lines[0])

	// Derived fields on the worked example: margins 20/18, bps 200.
	assert.Contains(t, lines[1], "Axis")
	assert.Contains(t, lines[1], "20.00,18.00")
	assert.Contains(t, lines[1], "200,")

	// Zero denominators export as empty cells, not zeros.
	fields := strings.Split(lines[2], ",")
	idx := func(h string) int {
		for i, name := range EnrichedHeaders {
			if name == h {
				return i
			}
		}
		return -1
	}
	assert.Equal(t, "", fields[idx("ebitda_margin_actual")])
	assert.Equal(t, "", fields[idx("pat_pct_diff")])
	assert.Equal(t, "Inline", fields[idx("pat_flag")])
}

func TestExportSummaryFile(t *testing.T) {
	rows := sampleEnriched(t)
	table := dataprocessing.NewAggregator(nil).Aggregate(context.Background(), rows, dataprocessing.AggregateOptions{})

	path := filepath.Join(t.TempDir(), "reports", "summary.csv")
	exp := NewResultsExporter(NewCSVWriter(nil))
	require.NoError(t, exp.ExportSummaryFile(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(data), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(SummaryHeaders, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Axis,"))
	assert.True(t, strings.HasPrefix(lines[2], "HDFC,"))
}

func TestRollupRecord(t *testing.T) {
	rollup := domain.CompanyRollup{
		Company:      "TATAMOTORS",
		ExpSalesAvg:  domain.Float(100),
		ExpPATAvg:    domain.Float(10),
		ExpEBITDAAvg: domain.Float(18),
		ExpMargin:    domain.Float(18),
		ActSales:     domain.Float(100),
		ActPAT:       domain.Float(10),
		ActEBITDA:    domain.Float(20),
		ActMargin:    domain.Float(20),
		MarginDiffBps: domain.Float(200),
		BeatEBITDA:   1,
		BeatTotal:    1,
	}

	record := RollupRecord(rollup)
	require.Len(t, record, len(RollupHeaders))
	assert.Equal(t, "TATAMOTORS", record[0])
	assert.Equal(t, "18.00", record[4])
	assert.Equal(t, "200", record[12])
	// Undefined diffs render empty.
	assert.Equal(t, "", record[9])
}
