// Command compare runs the results-vs-expectations pipeline over one or
// more CSV/XLSX files and writes enriched and summary CSVs next to a
// printed per-broker table.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"revxcli/internal/config"
	"revxcli/internal/exporter"
	"revxcli/internal/infrastructure"
	"revxcli/internal/loader"
	"revxcli/internal/services"
	"revxcli/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	outDir := flag.String("out", "", "output directory for exported CSVs (defaults to export.output_dir)")
	threshold := flag.Float64("threshold", 0, "Beat/Miss threshold in percentage points (overrides config when > 0)")
	facet := flag.Bool("facet", false, "facet summary groups by picked_type")
	company := flag.String("company", "", "emit a one-line company rollup CSV under this name")
	brokers := flag.String("brokers", "", "comma-separated broker filter")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: compare [flags] <results.csv|results.xlsx|dir> ...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	inputs, err := loader.ExpandInputs(flag.Args())
	if err != nil {
		slog.Error("failed to resolve inputs", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = cfg.Export.OutputDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := services.NewComparisonService(cfg.Analysis, logger)
	ld := loader.New(logger)
	exp := exporter.NewResultsExporter(exporter.NewCSVWriter(logger))

	opts := services.CompareOptions{ThresholdPct: *threshold}
	if *facet {
		facetOn := true
		opts.FacetByPickedType = &facetOn
	}
	if *brokers != "" {
		for _, b := range strings.Split(*brokers, ",") {
			if trimmed := strings.TrimSpace(b); trimmed != "" {
				opts.Filter.Brokers = append(opts.Filter.Brokers, trimmed)
			}
		}
	}

	// The pipeline itself is synchronous; only the per-file fan-out runs
	// concurrently.
	g, ctx := errgroup.WithContext(context.Background())
	for _, path := range inputs {
		g.Go(func() error {
			return processFile(ctx, path, *outDir, *company, svc, ld, exp, opts, logger)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("comparison failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func processFile(ctx context.Context, path, outDir, company string,
	svc *services.ComparisonService, ld *loader.Loader, exp *exporter.ResultsExporter,
	opts services.CompareOptions, logger *slog.Logger) error {

	table, err := ld.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	result, err := svc.Compare(ctx, table, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	enrichedPath := filepath.Join(outDir, stem+"_enriched.csv")
	if err := exp.ExportEnrichedFile(enrichedPath, result.FilteredRows); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	summaryPath := filepath.Join(outDir, stem+"_summary.csv")
	if err := exp.ExportSummaryFile(summaryPath, result.Summary); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if company != "" {
		rollup := svc.Rollup(ctx, company, result.FilteredRows)
		if err := exp.ExportRollupFile(filepath.Join(outDir, stem+"_rollup.csv"), rollup); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	printSummary(path, result)

	logger.Info("exported comparison",
		slog.String("input", path),
		slog.String("enriched", enrichedPath),
		slog.String("summary", summaryPath))
	return nil
}

func printSummary(path string, result *services.ComparisonResult) {
	fmt.Printf("--- %s (threshold %.2f%%) ---\n", path, result.ThresholdPct)
	fmt.Printf("%-20s %6s %22s %22s %22s %11s\n", "Broker", "Rows", "Sales B/I/M", "EBITDA B/I/M", "PAT B/I/M", "TotalBeats")
	for _, g := range result.Summary.Groups {
		name := g.Broker
		if g.PickedType != "" {
			name = fmt.Sprintf("%s (%s)", g.Broker, g.PickedType)
		}
		fmt.Printf("%-20s %6d %22s %22s %22s %11d\n",
			name, g.Rows,
			flagCell(g.Sales), flagCell(g.EBITDA), flagCell(g.PAT),
			g.TotalBeats)
	}
	fmt.Println()
}

func flagCell(c domain.FlagCounts) string {
	return fmt.Sprintf("%d/%d/%d", c.Beat, c.Inline, c.Miss)
}
