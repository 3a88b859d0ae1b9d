package domain

// Metric identifies one of the three compared financial metrics.
type Metric string

const (
	MetricSales  Metric = "sales"
	MetricEBITDA Metric = "ebitda"
	MetricPAT    Metric = "pat"
)

// Metrics lists the compared metrics in canonical display order.
var Metrics = []Metric{MetricSales, MetricEBITDA, MetricPAT}

// BeatFlag classifies a metric's actual value against the broker's
// expectation. Classification is a pure function of the percentage
// deviation against a configured threshold band.
type BeatFlag string

const (
	FlagBeat   BeatFlag = "Beat"
	FlagInline BeatFlag = "Inline"
	FlagMiss   BeatFlag = "Miss"
)

// FlagOrder is the canonical display order for beat flags.
var FlagOrder = []BeatFlag{FlagBeat, FlagInline, FlagMiss}

// ResultRow is one broker's actual-vs-expected record for one
// period/company. It is the validated input to the metric calculator;
// numeric fields have already been coerced by the schema validator.
type ResultRow struct {
	// Broker is the publishing broker's name; grouping key for summaries.
	Broker string `json:"broker" csv:"broker" validate:"required"`

	// Period is the reporting period label (e.g. "Q3FY25").
	Period string `json:"period" csv:"period" validate:"required"`

	// Reported actuals.
	Sales  float64 `json:"sales" csv:"sales"`
	EBITDA float64 `json:"ebitda" csv:"ebitda"`
	PAT    float64 `json:"pat" csv:"pat"`

	// Broker expectations published ahead of the result.
	ExpectedSales  float64 `json:"expected_sales" csv:"expected_sales"`
	ExpectedEBITDA float64 `json:"expected_ebitda" csv:"expected_ebitda"`
	ExpectedPAT    float64 `json:"expected_pat" csv:"expected_pat"`

	// PickedType is the broker's qualitative rating tag for the security
	// (e.g. "Top Pick", "Neutral"). Optional; empty when the source table
	// does not carry the column.
	PickedType string `json:"picked_type,omitempty" csv:"picked_type,omitempty"`
}

// Actual returns the reported value for the given metric.
func (r ResultRow) Actual(m Metric) float64 {
	switch m {
	case MetricSales:
		return r.Sales
	case MetricEBITDA:
		return r.EBITDA
	default:
		return r.PAT
	}
}

// Expected returns the broker's expectation for the given metric.
func (r ResultRow) Expected(m Metric) float64 {
	switch m {
	case MetricSales:
		return r.ExpectedSales
	case MetricEBITDA:
		return r.ExpectedEBITDA
	default:
		return r.ExpectedPAT
	}
}
