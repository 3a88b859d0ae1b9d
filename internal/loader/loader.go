// Package loader materializes raw result tables from CSV and Excel
// sources. It performs no validation beyond basic file shape; the
// required-column contract and numeric coercion belong to the
// dataprocessing validator.
package loader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"revxcli/pkg/contracts/domain"
)

// utf8BOM is stripped from CSV input; spreadsheet tools routinely
// prepend it when exporting.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader reads raw tables from the filesystem or from uploaded payloads.
type Loader struct {
	logger *slog.Logger
}

// New creates a table loader.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "loader"))}
}

// LoadFile reads a table from the given path, dispatching on extension.
// Supported: .csv and .xlsx.
func (l *Loader) LoadFile(path string) (domain.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return l.loadCSVFile(path)
	case ".xlsx":
		return l.LoadXLSX(path)
	default:
		return domain.Table{}, fmt.Errorf("unsupported input format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

func (l *Loader) loadCSVFile(path string) (domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return l.ReadCSV(f, filepath.Base(path))
}

// ReadCSV reads a headered CSV stream into a raw table. The source label
// is carried through for error reporting.
func (l *Loader) ReadCSV(r io.Reader, source string) (domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // ragged rows are the validator's problem

	records, err := reader.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return domain.Table{}, fmt.Errorf("%s: csv has no header row", source)
	}

	table := domain.Table{
		Columns: trimAll(records[0]),
		Rows:    records[1:],
		Source:  source,
	}

	l.logger.Info("loaded csv table",
		slog.String("source", source),
		slog.Int("column_count", len(table.Columns)),
		slog.Int("row_count", len(table.Rows)))
	return table, nil
}

// LoadXLSX reads the first sheet that carries a result header row. Broker
// sheets often hide the data behind cover sheets, so each sheet's first
// row is probed for the broker and sales columns before settling on the
// workbook's first sheet as a fallback.
func (l *Loader) LoadXLSX(path string) (domain.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.Table{}, fmt.Errorf("%s: workbook has no sheets", path)
	}

	sheetName := sheets[0]
	var rows [][]string
	for _, name := range sheets {
		testRows, testErr := f.GetRows(name)
		if testErr != nil || len(testRows) == 0 {
			continue
		}
		header := strings.ToLower(strings.Join(testRows[0], " "))
		if strings.Contains(header, "broker") && strings.Contains(header, "sales") {
			sheetName = name
			rows = testRows
			break
		}
	}
	if rows == nil {
		if rows, err = f.GetRows(sheetName); err != nil {
			return domain.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
	}
	if len(rows) == 0 {
		return domain.Table{}, fmt.Errorf("%s: sheet %q is empty", path, sheetName)
	}

	source := filepath.Base(path)
	table := domain.Table{
		Columns: trimAll(rows[0]),
		Rows:    rows[1:],
		Source:  source,
	}

	l.logger.Info("loaded xlsx table",
		slog.String("source", source),
		slog.String("sheet_name", sheetName),
		slog.Int("row_count", len(table.Rows)))
	return table, nil
}

func trimAll(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
