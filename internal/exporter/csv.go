package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"debtboard/pkg/contracts/domain"
)

// CSVHeaders is the export header row: every canonical column plus the
// derived growth percent.
var CSVHeaders = []string{"Country", "Country_Code", "Year", "Debt_USD", "YoY_Growth_Pct"}

// CSVWriter serializes observation tables as CSV.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// Encode serializes the view to CSV bytes: UTF-8 BOM, header row, one row
// per observation. Rows with undefined growth get an empty growth cell.
func (w *CSVWriter) Encode(view domain.Table) ([]byte, error) {
	var buf bytes.Buffer

	// BOM helps Excel recognize UTF-8
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	cw := csv.NewWriter(&buf)
	if err := cw.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	for i, obs := range view {
		if err := cw.Write(observationRecord(obs)); err != nil {
			return nil, fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile serializes the view to a CSV file, creating the directory if
// needed.
func (w *CSVWriter) WriteFile(path string, view domain.Table) error {
	data, err := w.Encode(view)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	w.logger.Info("writing CSV export",
		slog.String("path", path),
		slog.Int("rows", len(view)))

	return os.WriteFile(path, data, 0644)
}

func observationRecord(obs domain.Observation) []string {
	growth := ""
	if obs.GrowthValid {
		growth = formatFloat(obs.Growth)
	}
	return []string{
		obs.Country,
		obs.CountryCode,
		strconv.Itoa(obs.Year),
		formatFloat(obs.Debt),
		growth,
	}
}

// formatFloat formats a float64 for CSV output with exactly 2 decimal
// places, so values like 13.4 appear as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
