package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "debtboard/internal/errors"
	"debtboard/pkg/contracts/domain"
)

// RawTable holds one country's rows exactly as read from its spreadsheet,
// tagged with the country identity. Headers and cells are untyped strings;
// coercion happens in the preprocessor.
type RawTable struct {
	Country domain.Country
	Headers []string
	Rows    [][]string
}

// LoadFailure records one country whose source could not be read.
type LoadFailure struct {
	Country domain.Country
	Err     error
}

// LoadResult is the outcome of loading all countries: the successfully
// read tables in enumeration order plus the per-country failures.
type LoadResult struct {
	Tables   []RawTable
	Failures []LoadFailure
}

// FileLocator maps a country code to its spreadsheet path.
type FileLocator interface {
	CountryDataFile(code string) string
}

// Loader reads the per-country debt spreadsheets.
type Loader struct {
	locator FileLocator
	logger  *slog.Logger
}

// NewLoader creates a loader resolving files through the given locator.
func NewLoader(locator FileLocator, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		locator: locator,
		logger:  logger.With(slog.String("component", "dataset_loader")),
	}
}

// LoadAll reads every country's spreadsheet. Countries whose file is
// missing or unreadable are skipped and reported in the result; the load
// only fails when zero countries could be read.
func (l *Loader) LoadAll(ctx context.Context) (*LoadResult, error) {
	result := &LoadResult{}

	for _, country := range domain.Countries {
		table, err := l.LoadCountry(ctx, country)
		if err != nil {
			l.logger.WarnContext(ctx, "skipping country, data unavailable",
				slog.String("country", country.Name),
				slog.String("code", country.Code),
				slog.String("error", err.Error()))
			result.Failures = append(result.Failures, LoadFailure{Country: country, Err: err})
			continue
		}
		result.Tables = append(result.Tables, *table)
	}

	if len(result.Tables) == 0 {
		return nil, apperrors.NewNoDataLoadedError(apperrors.ErrNoDataLoaded).
			WithContext("countries_attempted", len(domain.Countries))
	}

	l.logger.InfoContext(ctx, "country data loaded",
		slog.Int("loaded", len(result.Tables)),
		slog.Int("failed", len(result.Failures)))

	return result, nil
}

// LoadCountry reads one country's spreadsheet into a raw table.
func (l *Loader) LoadCountry(ctx context.Context, country domain.Country) (*RawTable, error) {
	path := l.locator.CountryDataFile(country.Code)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(country.Code,
			fmt.Errorf("failed to open file %s: %w", path, err))
	}
	defer f.Close()

	rows, sheetName, err := findDataSheet(f)
	if err != nil {
		return nil, apperrors.NewDataUnavailableError(country.Code, err)
	}

	l.logger.DebugContext(ctx, "read country spreadsheet",
		slog.String("country", country.Name),
		slog.String("sheet", sheetName),
		slog.Int("rows", len(rows)-1))

	table := &RawTable{
		Country: country,
		Headers: rows[0],
	}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, padRow(row, len(table.Headers)))
	}
	return table, nil
}

// findDataSheet returns the rows of the first sheet that has a header row
// and at least one data row. World Bank extracts put the data on the first
// sheet, but exports renamed by hand are tolerated.
func findDataSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 2 {
			continue
		}
		if !emptyRow(rows[0]) {
			return rows, name, nil
		}
	}
	return nil, "", fmt.Errorf("no sheet with tabular data found")
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// padRow extends a short row with empty cells so every row has one cell
// per header. excelize truncates trailing empty cells.
func padRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
