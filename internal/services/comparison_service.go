// Package services hosts the application-facing orchestration around the
// comparison core: one entry point that validates, enriches and
// aggregates a raw table, shared by the CLI and the HTTP transport.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"revxcli/internal/config"
	"revxcli/internal/dataprocessing"
	"revxcli/pkg/contracts/domain"
)

// ComparisonService runs the validate → compute → aggregate pipeline.
// The service itself is stateless; every call takes its full input and
// returns a fresh result, so concurrent HTTP requests need no locking.
type ComparisonService struct {
	analysis   config.AnalysisConfig
	validator  *dataprocessing.Validator
	aggregator *dataprocessing.Aggregator
	logger     *slog.Logger
}

// NewComparisonService creates a comparison service.
func NewComparisonService(analysis config.AnalysisConfig, logger *slog.Logger) *ComparisonService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "comparison_service"))
	return &ComparisonService{
		analysis:   analysis,
		validator:  dataprocessing.NewValidator(logger),
		aggregator: dataprocessing.NewAggregator(logger),
		logger:     logger,
	}
}

// CompareOptions tunes a single comparison run.
type CompareOptions struct {
	// ThresholdPct overrides the configured Beat/Miss band when > 0.
	ThresholdPct float64

	// FacetByPickedType overrides the configured summary faceting.
	FacetByPickedType *bool

	// Filter narrows the enriched rows before aggregation. The unfiltered
	// enriched sequence is still returned in full.
	Filter dataprocessing.Filter
}

// ComparisonResult is the full output of one pipeline run.
type ComparisonResult struct {
	// RunID identifies this invocation in logs and export filenames.
	RunID string `json:"run_id"`

	// ThresholdPct is the classification band the run actually used.
	ThresholdPct float64 `json:"threshold_pct"`

	// Rows is the enriched sequence in input order, unfiltered.
	Rows []domain.EnrichedRow `json:"rows"`

	// FilteredRows is Rows after applying the request filter; identical
	// to Rows when no filter was set.
	FilteredRows []domain.EnrichedRow `json:"filtered_rows,omitempty"`

	// Summary aggregates FilteredRows per broker.
	Summary domain.SummaryTable `json:"summary"`
}

// Compare runs the full pipeline over a raw table. Validation failures
// return before any row is enriched; the error is a *SchemaError or
// *CoercionError from the dataprocessing package.
func (s *ComparisonService) Compare(ctx context.Context, table domain.Table, opts CompareOptions) (*ComparisonResult, error) {
	runID := uuid.NewString()
	start := time.Now()

	logger := s.logger.With(slog.String("run_id", runID), slog.String("source", table.Source))
	logger.InfoContext(ctx, "starting comparison run",
		slog.Int("row_count", len(table.Rows)))

	rows, err := s.validator.Validate(ctx, table)
	if err != nil {
		comparisonsFailed.Inc()
		return nil, err
	}

	threshold := s.analysis.BeatThresholdPct
	if opts.ThresholdPct > 0 {
		threshold = opts.ThresholdPct
	}
	calc := dataprocessing.NewCalculator(dataprocessing.CalculatorConfig{BeatThresholdPct: threshold}, logger)
	enriched := calc.ComputeAll(ctx, rows)

	filtered := enriched
	if !isZeroFilter(opts.Filter) {
		filtered = dataprocessing.FilterRows(enriched, opts.Filter)
	}

	facet := s.analysis.FacetByPickedType
	if opts.FacetByPickedType != nil {
		facet = *opts.FacetByPickedType
	}
	summary := s.aggregator.Aggregate(ctx, filtered, dataprocessing.AggregateOptions{FacetByPickedType: facet})

	comparisonsTotal.Inc()
	rowsProcessed.Add(float64(len(rows)))

	logger.InfoContext(ctx, "comparison run complete",
		slog.Int("row_count", len(enriched)),
		slog.Int("filtered_count", len(filtered)),
		slog.Int("group_count", len(summary.Groups)),
		slog.Float64("threshold_pct", threshold),
		slog.Duration("duration", time.Since(start)))

	return &ComparisonResult{
		RunID:        runID,
		ThresholdPct: threshold,
		Rows:         enriched,
		FilteredRows: filtered,
		Summary:      summary,
	}, nil
}

// Rollup condenses filtered rows into the one-line company consensus view.
func (s *ComparisonService) Rollup(ctx context.Context, company string, rows []domain.EnrichedRow) domain.CompanyRollup {
	return s.aggregator.Rollup(company, rows)
}

func isZeroFilter(f dataprocessing.Filter) bool {
	return len(f.Brokers) == 0 && len(f.PickedTypes) == 0 && len(f.Flags) == 0
}
