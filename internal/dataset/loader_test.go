package dataset

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "debtboard/internal/errors"
	"debtboard/pkg/contracts/domain"
)

// testLocator resolves country files inside a test directory using the
// World Bank extract naming convention.
type testLocator struct {
	dir string
}

func (l testLocator) CountryDataFile(code string) string {
	return filepath.Join(l.dir, code+"-646 PPG Bilateral Debt.xlsx")
}

// writeCountryFile creates an xlsx fixture with the given header and rows.
func writeCountryFile(t *testing.T, path string, headers []string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	headerCells := make([]interface{}, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &headerCells))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	require.NoError(t, f.SaveAs(path))
}

func writeDefaultFixtures(t *testing.T, dir string) {
	t.Helper()
	for _, c := range domain.Countries {
		writeCountryFile(t, testLocator{dir}.CountryDataFile(c.Code),
			[]string{"year", "data"},
			[][]interface{}{
				{2018, 100.0},
				{2019, 150.0},
				{2020, 120.0},
			})
	}
}

func TestLoadAll(t *testing.T) {
	t.Run("loads every country and tags rows", func(t *testing.T) {
		dir := t.TempDir()
		writeDefaultFixtures(t, dir)

		loader := NewLoader(testLocator{dir}, slog.Default())
		result, err := loader.LoadAll(context.Background())
		require.NoError(t, err)

		require.Len(t, result.Tables, len(domain.Countries))
		assert.Empty(t, result.Failures)

		for i, table := range result.Tables {
			assert.Equal(t, domain.Countries[i], table.Country)
			assert.Equal(t, []string{"year", "data"}, table.Headers)
			assert.Len(t, table.Rows, 3)
		}
	})

	t.Run("skips unavailable countries and continues", func(t *testing.T) {
		dir := t.TempDir()
		writeDefaultFixtures(t, dir)
		require.NoError(t, os.Remove(testLocator{dir}.CountryDataFile("BTN")))

		loader := NewLoader(testLocator{dir}, slog.Default())
		result, err := loader.LoadAll(context.Background())
		require.NoError(t, err)

		assert.Len(t, result.Tables, len(domain.Countries)-1)
		require.Len(t, result.Failures, 1)
		assert.Equal(t, "BTN", result.Failures[0].Country.Code)
		assert.True(t, apperrors.IsType(result.Failures[0].Err, apperrors.ErrTypeDataUnavailable))
	})

	t.Run("fails with NoDataLoaded when every country is missing", func(t *testing.T) {
		loader := NewLoader(testLocator{t.TempDir()}, slog.Default())
		result, err := loader.LoadAll(context.Background())

		assert.Nil(t, result)
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoDataLoaded))
	})

	t.Run("unreadable spreadsheet is a per-country failure", func(t *testing.T) {
		dir := t.TempDir()
		writeDefaultFixtures(t, dir)
		require.NoError(t, os.WriteFile(testLocator{dir}.CountryDataFile("NPL"),
			[]byte("not a spreadsheet"), 0644))

		loader := NewLoader(testLocator{dir}, slog.Default())
		result, err := loader.LoadAll(context.Background())
		require.NoError(t, err)

		require.Len(t, result.Failures, 1)
		assert.Equal(t, "NPL", result.Failures[0].Country.Code)
	})
}

func TestLoadCountryPadsShortRows(t *testing.T) {
	dir := t.TempDir()
	// Trailing empty cells are truncated by the xlsx format; the loader
	// must pad rows back to header width.
	writeCountryFile(t, testLocator{dir}.CountryDataFile("BGD"),
		[]string{"year", "data", "note"},
		[][]interface{}{
			{2018, 100.0, "x"},
			{2019, 150.0},
		})

	loader := NewLoader(testLocator{dir}, slog.Default())
	table, err := loader.LoadCountry(context.Background(), domain.Countries[0])
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Len(t, table.Rows[1], 3)
	assert.Equal(t, "", table.Rows[1][2])
}

func TestLoadingIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)

	loader := NewLoader(testLocator{dir}, slog.Default())

	first, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	second, err := loader.LoadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
