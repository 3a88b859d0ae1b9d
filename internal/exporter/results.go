package exporter

import (
	"io"

	"revxcli/pkg/contracts/domain"
)

// ResultsExporter renders enriched rows, summary tables and company
// rollups as flat CSV documents, preserving the input column set plus
// every derived field.
type ResultsExporter struct {
	csvWriter *CSVWriter
}

// NewResultsExporter creates a results exporter.
func NewResultsExporter(csvWriter *CSVWriter) *ResultsExporter {
	return &ResultsExporter{csvWriter: csvWriter}
}

// EnrichedHeaders is the column set for enriched-row exports.
var EnrichedHeaders = []string{
	"broker", "period",
	"sales", "ebitda", "pat",
	"expected_sales", "expected_ebitda", "expected_pat",
	"picked_type",
	"ebitda_margin_actual", "ebitda_margin_expected",
	"sales_pct_diff", "sales_flag",
	"ebitda_pct_diff", "ebitda_flag",
	"pat_pct_diff", "pat_flag",
	"margin_bps_diff", "total_beats",
}

// EnrichedRecords flattens enriched rows into CSV cells, source order
// preserved.
func EnrichedRecords(rows []domain.EnrichedRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Broker,
			row.Period,
			formatFloat(row.Sales),
			formatFloat(row.EBITDA),
			formatFloat(row.PAT),
			formatFloat(row.ExpectedSales),
			formatFloat(row.ExpectedEBITDA),
			formatFloat(row.ExpectedPAT),
			row.PickedType,
			formatNullFloat(row.EBITDAMarginActual),
			formatNullFloat(row.EBITDAMarginExpected),
			formatNullFloat(row.SalesDiff.PctDiff),
			string(row.SalesDiff.Flag),
			formatNullFloat(row.EBITDADiff.PctDiff),
			string(row.EBITDADiff.Flag),
			formatNullFloat(row.PATDiff.PctDiff),
			string(row.PATDiff.Flag),
			formatBps(row.MarginBpsDiff),
			formatInt(row.TotalBeats),
		})
	}
	return records
}

// WriteEnriched streams the enriched rows as CSV to w.
func (e *ResultsExporter) WriteEnriched(w io.Writer, rows []domain.EnrichedRow) error {
	return e.csvWriter.Write(w, WriteOptions{
		Headers:   EnrichedHeaders,
		Records:   EnrichedRecords(rows),
		BOMPrefix: true,
	})
}

// ExportEnrichedFile writes the enriched rows to a CSV file.
func (e *ResultsExporter) ExportEnrichedFile(path string, rows []domain.EnrichedRow) error {
	return e.csvWriter.WriteFile(path, EnrichedHeaders, EnrichedRecords(rows))
}

// SummaryHeaders is the column set for summary-table exports.
var SummaryHeaders = []string{
	"broker", "picked_type", "rows",
	"sales_beat", "sales_inline", "sales_miss",
	"ebitda_beat", "ebitda_inline", "ebitda_miss",
	"pat_beat", "pat_inline", "pat_miss",
	"total_beats",
}

// SummaryRecords flattens a summary table into CSV cells, group order
// preserved.
func SummaryRecords(table domain.SummaryTable) [][]string {
	records := make([][]string, 0, len(table.Groups))
	for _, g := range table.Groups {
		records = append(records, []string{
			g.Broker,
			g.PickedType,
			formatInt(g.Rows),
			formatInt(g.Sales.Beat), formatInt(g.Sales.Inline), formatInt(g.Sales.Miss),
			formatInt(g.EBITDA.Beat), formatInt(g.EBITDA.Inline), formatInt(g.EBITDA.Miss),
			formatInt(g.PAT.Beat), formatInt(g.PAT.Inline), formatInt(g.PAT.Miss),
			formatInt(g.TotalBeats),
		})
	}
	return records
}

// WriteSummary streams the summary table as CSV to w.
func (e *ResultsExporter) WriteSummary(w io.Writer, table domain.SummaryTable) error {
	return e.csvWriter.Write(w, WriteOptions{
		Headers:   SummaryHeaders,
		Records:   SummaryRecords(table),
		BOMPrefix: true,
	})
}

// ExportSummaryFile writes the summary table to a CSV file.
func (e *ResultsExporter) ExportSummaryFile(path string, table domain.SummaryTable) error {
	return e.csvWriter.WriteFile(path, SummaryHeaders, SummaryRecords(table))
}

// RollupHeaders is the column set for company rollup exports, mirroring
// the dashboard's one-row summary layout.
var RollupHeaders = []string{
	"company",
	"exp_sales", "exp_pat", "exp_ebitda", "exp_ebitda_margin_pct",
	"act_sales", "act_pat", "act_ebitda", "act_ebitda_margin_pct",
	"sales_diff_pct", "pat_diff_pct", "ebitda_diff_pct", "margin_diff_bps",
	"beat_sales", "beat_pat", "beat_ebitda", "beat_total",
}

// RollupRecord flattens a company rollup into one CSV row.
func RollupRecord(r domain.CompanyRollup) []string {
	return []string{
		r.Company,
		formatNullFloat(r.ExpSalesAvg),
		formatNullFloat(r.ExpPATAvg),
		formatNullFloat(r.ExpEBITDAAvg),
		formatNullFloat(r.ExpMargin),
		formatNullFloat(r.ActSales),
		formatNullFloat(r.ActPAT),
		formatNullFloat(r.ActEBITDA),
		formatNullFloat(r.ActMargin),
		formatNullFloat(r.SalesDiffPct),
		formatNullFloat(r.PATDiffPct),
		formatNullFloat(r.EBITDADiffPct),
		formatBps(r.MarginDiffBps),
		formatInt(r.BeatSales),
		formatInt(r.BeatPAT),
		formatInt(r.BeatEBITDA),
		formatInt(r.BeatTotal),
	}
}

// ExportRollupFile writes a company rollup to a single-row CSV file.
func (e *ResultsExporter) ExportRollupFile(path string, rollup domain.CompanyRollup) error {
	return e.csvWriter.WriteFile(path, RollupHeaders, [][]string{RollupRecord(rollup)})
}
