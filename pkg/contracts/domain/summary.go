package domain

// FlagCounts tallies Beat/Inline/Miss classifications for one metric
// within one summary group.
type FlagCounts struct {
	Beat   int `json:"beat" csv:"beat"`
	Inline int `json:"inline" csv:"inline"`
	Miss   int `json:"miss" csv:"miss"`
}

// Add increments the counter matching the given flag.
func (c *FlagCounts) Add(f BeatFlag) {
	switch f {
	case FlagBeat:
		c.Beat++
	case FlagMiss:
		c.Miss++
	default:
		c.Inline++
	}
}

// Count returns the tally for the given flag.
func (c FlagCounts) Count(f BeatFlag) int {
	switch f {
	case FlagBeat:
		return c.Beat
	case FlagMiss:
		return c.Miss
	default:
		return c.Inline
	}
}

// GroupSummary is the aggregate for one broker (optionally one
// broker/picked_type facet) across every enriched row in the group.
type GroupSummary struct {
	Broker string `json:"broker" csv:"broker"`

	// PickedType is set only when the aggregation was faceted by the
	// broker's rating tag.
	PickedType string `json:"picked_type,omitempty" csv:"picked_type,omitempty"`

	// Rows is the number of enriched rows contributing to this group.
	Rows int `json:"rows" csv:"rows"`

	Sales  FlagCounts `json:"sales" csv:"sales"`
	EBITDA FlagCounts `json:"ebitda" csv:"ebitda"`
	PAT    FlagCounts `json:"pat" csv:"pat"`

	// TotalBeats sums the per-row beat counts (0-3 each) across the group.
	TotalBeats int `json:"total_beats" csv:"total_beats"`
}

// Counts returns the flag tally for the given metric.
func (g GroupSummary) Counts(m Metric) FlagCounts {
	switch m {
	case MetricSales:
		return g.Sales
	case MetricEBITDA:
		return g.EBITDA
	default:
		return g.PAT
	}
}

// SummaryTable is the aggregation output for one pipeline invocation.
// Groups preserve first-seen broker order from the input; the table is
// rebuilt in full on every invocation and owned by the caller.
type SummaryTable struct {
	Groups []GroupSummary `json:"groups"`

	// FacetedByPickedType records whether groups carry the secondary
	// picked_type facet.
	FacetedByPickedType bool `json:"faceted_by_picked_type,omitempty"`
}

// Group returns the summary for the given broker (first matching group)
// and whether it was found.
func (t SummaryTable) Group(broker string) (GroupSummary, bool) {
	for _, g := range t.Groups {
		if g.Broker == broker {
			return g, true
		}
	}
	return GroupSummary{}, false
}

// CompanyRollup condenses a filtered row set for one company/period into
// a single line: actuals alongside consensus (averaged) expectations and
// the differentials between them. Mirrors the one-row summary table the
// analyst-facing dashboard renders.
type CompanyRollup struct {
	Company string `json:"company" csv:"company"`

	ExpSalesAvg  NullFloat `json:"exp_sales_avg" csv:"exp_sales_avg"`
	ExpEBITDAAvg NullFloat `json:"exp_ebitda_avg" csv:"exp_ebitda_avg"`
	ExpPATAvg    NullFloat `json:"exp_pat_avg" csv:"exp_pat_avg"`
	ExpMargin    NullFloat `json:"exp_margin" csv:"exp_margin"`

	ActSales  NullFloat `json:"act_sales" csv:"act_sales"`
	ActEBITDA NullFloat `json:"act_ebitda" csv:"act_ebitda"`
	ActPAT    NullFloat `json:"act_pat" csv:"act_pat"`
	ActMargin NullFloat `json:"act_margin" csv:"act_margin"`

	SalesDiffPct  NullFloat `json:"sales_diff_pct" csv:"sales_diff_pct"`
	EBITDADiffPct NullFloat `json:"ebitda_diff_pct" csv:"ebitda_diff_pct"`
	PATDiffPct    NullFloat `json:"pat_diff_pct" csv:"pat_diff_pct"`
	MarginDiffBps NullFloat `json:"margin_diff_bps" csv:"margin_diff_bps"`

	// Beat* are 1 when any contributing broker row flagged the metric
	// Beat, else 0. BeatTotal is their sum (0-3).
	BeatSales  int `json:"beat_sales" csv:"beat_sales"`
	BeatEBITDA int `json:"beat_ebitda" csv:"beat_ebitda"`
	BeatPAT    int `json:"beat_pat" csv:"beat_pat"`
	BeatTotal  int `json:"beat_total" csv:"beat_total"`
}
