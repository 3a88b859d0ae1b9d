package domain

// MetricDiff holds the derived comparison for one metric of one row.
type MetricDiff struct {
	// PctDiff is (actual - expected) / expected * 100. Undefined when the
	// expectation is zero.
	PctDiff NullFloat `json:"pct_diff"`

	// Flag is the Beat/Inline/Miss classification of PctDiff against the
	// configured threshold band. An undefined PctDiff classifies as
	// Inline by convention so that aggregation never sees an unflagged row.
	Flag BeatFlag `json:"flag"`
}

// EnrichedRow is a ResultRow plus every derived field the calculator
// produces. Created once per validated row and immutable afterward;
// consumed by the aggregator and by presentation/export.
type EnrichedRow struct {
	ResultRow

	// EBITDAMarginActual is ebitda/sales*100; undefined when sales is zero.
	EBITDAMarginActual NullFloat `json:"ebitda_margin_actual"`

	// EBITDAMarginExpected is expected_ebitda/expected_sales*100;
	// undefined when expected_sales is zero.
	EBITDAMarginExpected NullFloat `json:"ebitda_margin_expected"`

	// Per-metric percentage differentials and classifications.
	SalesDiff  MetricDiff `json:"sales_diff"`
	EBITDADiff MetricDiff `json:"ebitda_diff"`
	PATDiff    MetricDiff `json:"pat_diff"`

	// MarginBpsDiff is the EBITDA margin differential expressed in basis
	// points: (margin_actual - margin_expected) * 100. Undefined when
	// either margin is undefined.
	MarginBpsDiff NullFloat `json:"margin_bps_diff"`

	// TotalBeats counts the metrics flagged Beat on this row (0-3).
	TotalBeats int `json:"total_beats"`
}

// Diff returns the derived comparison for the given metric.
func (e EnrichedRow) Diff(m Metric) MetricDiff {
	switch m {
	case MetricSales:
		return e.SalesDiff
	case MetricEBITDA:
		return e.EBITDADiff
	default:
		return e.PATDiff
	}
}

// Flag returns the Beat/Inline/Miss classification for the given metric.
func (e EnrichedRow) Flag(m Metric) BeatFlag {
	return e.Diff(m).Flag
}
