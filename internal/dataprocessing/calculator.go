package dataprocessing

import (
	"context"
	"log/slog"

	"revxcli/pkg/contracts/domain"
)

// DefaultBeatThresholdPct is the percentage-point band within which a
// deviation counts as Inline.
const DefaultBeatThresholdPct = 2.0

// CalculatorConfig holds configuration options for the Calculator.
type CalculatorConfig struct {
	// BeatThresholdPct is the classification band T in percentage points:
	// pct_diff > +T is a Beat, pct_diff < -T a Miss, anything else Inline.
	BeatThresholdPct float64
}

// DefaultCalculatorConfig returns the stock configuration.
func DefaultCalculatorConfig() CalculatorConfig {
	return CalculatorConfig{BeatThresholdPct: DefaultBeatThresholdPct}
}

// Calculator derives margins, differentials and beat flags from validated
// rows. Compute is a pure function applied independently per row.
type Calculator struct {
	thresholdPct float64
	logger       *slog.Logger
}

// NewCalculator creates a metric calculator with the given configuration.
func NewCalculator(config CalculatorConfig, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BeatThresholdPct <= 0 {
		config.BeatThresholdPct = DefaultBeatThresholdPct
	}
	return &Calculator{
		thresholdPct: config.BeatThresholdPct,
		logger:       logger.With(slog.String("component", "metric_calculator")),
	}
}

// ThresholdPct returns the configured classification band.
func (c *Calculator) ThresholdPct() float64 {
	return c.thresholdPct
}

// Compute derives every enriched field for one validated row. Zero
// denominators yield undefined values, never a fault; negative
// expectations run through the same formulas with no special-casing.
func (c *Calculator) Compute(row domain.ResultRow) domain.EnrichedRow {
	enriched := domain.EnrichedRow{
		ResultRow:            row,
		EBITDAMarginActual:   ratioPct(row.EBITDA, row.Sales),
		EBITDAMarginExpected: ratioPct(row.ExpectedEBITDA, row.ExpectedSales),
	}

	enriched.SalesDiff = c.diff(row, domain.MetricSales)
	enriched.EBITDADiff = c.diff(row, domain.MetricEBITDA)
	enriched.PATDiff = c.diff(row, domain.MetricPAT)

	// Percentage points to basis points.
	enriched.MarginBpsDiff = enriched.EBITDAMarginActual.Sub(enriched.EBITDAMarginExpected).Scale(100)

	for _, m := range domain.Metrics {
		if enriched.Flag(m) == domain.FlagBeat {
			enriched.TotalBeats++
		}
	}
	return enriched
}

// ComputeAll enriches every row, preserving input order.
func (c *Calculator) ComputeAll(ctx context.Context, rows []domain.ResultRow) []domain.EnrichedRow {
	c.logger.DebugContext(ctx, "computing derived metrics",
		slog.Int("row_count", len(rows)),
		slog.Float64("beat_threshold_pct", c.thresholdPct))

	enriched := make([]domain.EnrichedRow, len(rows))
	for i, row := range rows {
		enriched[i] = c.Compute(row)
	}
	return enriched
}

// Classify maps a percentage differential onto a beat flag. The boundary
// is exclusive on both sides: exactly +T or -T is Inline. An undefined
// differential classifies Inline by convention so aggregation never has
// to reason about not-a-number values.
func (c *Calculator) Classify(pctDiff domain.NullFloat) domain.BeatFlag {
	if !pctDiff.Valid {
		return domain.FlagInline
	}
	switch {
	case pctDiff.Float64 > c.thresholdPct:
		return domain.FlagBeat
	case pctDiff.Float64 < -c.thresholdPct:
		return domain.FlagMiss
	default:
		return domain.FlagInline
	}
}

func (c *Calculator) diff(row domain.ResultRow, m domain.Metric) domain.MetricDiff {
	pct := pctDiff(row.Actual(m), row.Expected(m))
	return domain.MetricDiff{PctDiff: pct, Flag: c.Classify(pct)}
}

// pctDiff is (actual - expected) / expected * 100, undefined on a zero
// expectation.
func pctDiff(actual, expected float64) domain.NullFloat {
	if expected == 0 {
		return domain.Undefined()
	}
	return domain.Float((actual - expected) / expected * 100)
}

// ratioPct is numerator/denominator*100, undefined on a zero denominator.
func ratioPct(numerator, denominator float64) domain.NullFloat {
	if denominator == 0 {
		return domain.Undefined()
	}
	return domain.Float(numerator / denominator * 100)
}
