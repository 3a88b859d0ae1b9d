package dataprocessing

import (
	"context"
	"log/slog"

	"revxcli/pkg/contracts/domain"
)

// AggregateOptions configures an aggregation pass.
type AggregateOptions struct {
	// FacetByPickedType splits each broker group further by the broker's
	// rating tag. Group order still follows first appearance in the input.
	FacetByPickedType bool
}

// Aggregator rolls enriched rows up into per-broker flag counts. The
// output is rebuilt in full on every call.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger.With(slog.String("component", "aggregator"))}
}

// Aggregate groups enriched rows by broker (optionally broker and
// picked_type) in first-seen input order, counting Beat/Inline/Miss per
// metric and summing per-row beat totals. Pure and deterministic.
func (a *Aggregator) Aggregate(ctx context.Context, rows []domain.EnrichedRow, opts AggregateOptions) domain.SummaryTable {
	table := domain.SummaryTable{FacetedByPickedType: opts.FacetByPickedType}
	groupIdx := make(map[[2]string]int)

	for _, row := range rows {
		key := [2]string{row.Broker}
		if opts.FacetByPickedType {
			key[1] = row.PickedType
		}

		i, ok := groupIdx[key]
		if !ok {
			group := domain.GroupSummary{Broker: row.Broker}
			if opts.FacetByPickedType {
				group.PickedType = row.PickedType
			}
			table.Groups = append(table.Groups, group)
			i = len(table.Groups) - 1
			groupIdx[key] = i
		}

		g := &table.Groups[i]
		g.Rows++
		g.Sales.Add(row.SalesDiff.Flag)
		g.EBITDA.Add(row.EBITDADiff.Flag)
		g.PAT.Add(row.PATDiff.Flag)
		g.TotalBeats += row.TotalBeats
	}

	a.logger.DebugContext(ctx, "aggregated enriched rows",
		slog.Int("row_count", len(rows)),
		slog.Int("group_count", len(table.Groups)),
		slog.Bool("faceted_by_picked_type", opts.FacetByPickedType))
	return table
}

// Rollup condenses a row set for one company/period into a single
// consensus line: actuals from the first contributing row, expectations
// averaged across brokers, and differentials recomputed from those. A
// metric's beat bit is set when any contributing row flagged it Beat.
func (a *Aggregator) Rollup(company string, rows []domain.EnrichedRow) domain.CompanyRollup {
	rollup := domain.CompanyRollup{Company: company}
	if len(rows) == 0 {
		return rollup
	}

	first := rows[0]
	rollup.ActSales = domain.Float(first.Sales)
	rollup.ActEBITDA = domain.Float(first.EBITDA)
	rollup.ActPAT = domain.Float(first.PAT)
	rollup.ActMargin = ratioPct(first.EBITDA, first.Sales)

	var sumSales, sumEBITDA, sumPAT float64
	for _, row := range rows {
		sumSales += row.ExpectedSales
		sumEBITDA += row.ExpectedEBITDA
		sumPAT += row.ExpectedPAT

		if row.SalesDiff.Flag == domain.FlagBeat {
			rollup.BeatSales = 1
		}
		if row.EBITDADiff.Flag == domain.FlagBeat {
			rollup.BeatEBITDA = 1
		}
		if row.PATDiff.Flag == domain.FlagBeat {
			rollup.BeatPAT = 1
		}
	}
	n := float64(len(rows))
	expSales, expEBITDA, expPAT := sumSales/n, sumEBITDA/n, sumPAT/n

	rollup.ExpSalesAvg = domain.Float(expSales)
	rollup.ExpEBITDAAvg = domain.Float(expEBITDA)
	rollup.ExpPATAvg = domain.Float(expPAT)
	rollup.ExpMargin = ratioPct(expEBITDA, expSales)

	rollup.SalesDiffPct = pctDiff(first.Sales, expSales)
	rollup.EBITDADiffPct = pctDiff(first.EBITDA, expEBITDA)
	rollup.PATDiffPct = pctDiff(first.PAT, expPAT)
	rollup.MarginDiffBps = rollup.ActMargin.Sub(rollup.ExpMargin).Scale(100)

	rollup.BeatTotal = rollup.BeatSales + rollup.BeatEBITDA + rollup.BeatPAT
	return rollup
}
