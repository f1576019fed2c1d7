package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"debtboard/internal/config"
	apperrors "debtboard/internal/errors"
	"debtboard/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		BaseDir:    base,
		DataDir:    filepath.Join(base, "data"),
		ReportsDir: filepath.Join(base, "reports"),
		LogsDir:    filepath.Join(base, "logs"),
	}
}

func writeCountryFile(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"year", "data"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func seedAllCountries(t *testing.T, paths *config.Paths) {
	t.Helper()
	for _, c := range domain.Countries {
		writeCountryFile(t, paths.CountryDataFile(c.Code), [][]interface{}{
			{2018, 100.0},
			{2019, 150.0},
			{2020, 120.0},
		})
	}
}

func loadedService(t *testing.T) (*DebtService, *config.Paths) {
	t.Helper()
	paths := testPaths(t)
	seedAllCountries(t, paths)

	svc := NewDebtService(paths, slog.Default())
	require.NoError(t, svc.Reload(context.Background(), false))
	return svc, paths
}

func allCountriesRequest() AnalysisRequest {
	return AnalysisRequest{
		Countries: domain.CountryNames(),
		FromYear:  2018,
		ToYear:    2020,
	}
}

func TestReloadBuildsCanonicalTable(t *testing.T) {
	svc, _ := loadedService(t)

	table, err := svc.Table()
	require.NoError(t, err)
	assert.Len(t, table, 3*len(domain.Countries))

	health := svc.Health()
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, len(domain.Countries), health.CountriesLoaded)
}

func TestReloadCacheKeyedByFingerprint(t *testing.T) {
	svc, paths := loadedService(t)
	ctx := context.Background()

	first, err := svc.Table()
	require.NoError(t, err)
	loadedAt := svc.Health().LoadedAt

	// Unchanged sources: reload keeps the cached table.
	require.NoError(t, svc.Reload(ctx, false))
	assert.Equal(t, loadedAt, svc.Health().LoadedAt)

	// A changed source invalidates the cache.
	path := paths.CountryDataFile("BGD")
	writeCountryFile(t, path, [][]interface{}{{2018, 999.0}})
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	require.NoError(t, svc.Reload(ctx, false))
	second, err := svc.Table()
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestReloadForceRebuilds(t *testing.T) {
	svc, _ := loadedService(t)
	loadedAt := svc.Health().LoadedAt

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, svc.Reload(context.Background(), true))
	assert.True(t, svc.Health().LoadedAt.After(loadedAt))
}

func TestReloadIsIdempotent(t *testing.T) {
	svc, _ := loadedService(t)
	ctx := context.Background()

	first, err := svc.Table()
	require.NoError(t, err)

	require.NoError(t, svc.Reload(ctx, true))
	second, err := svc.Table()
	require.NoError(t, err)

	assert.Equal(t, first, second, "rebuilding over unchanged sources yields an identical table")
}

func TestTableBeforeLoadFails(t *testing.T) {
	svc := NewDebtService(testPaths(t), slog.Default())
	_, err := svc.Table()
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoDataLoaded))
}

func TestReloadAllMissingFails(t *testing.T) {
	svc := NewDebtService(testPaths(t), slog.Default())
	err := svc.Reload(context.Background(), false)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNoDataLoaded))
}

func TestPartialLoadIsDegraded(t *testing.T) {
	paths := testPaths(t)
	seedAllCountries(t, paths)
	require.NoError(t, os.Remove(paths.CountryDataFile("MMR")))

	svc := NewDebtService(paths, slog.Default())
	require.NoError(t, svc.Reload(context.Background(), false))

	health := svc.Health()
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, []string{"Myanmar"}, health.CountriesFailed)
}

func TestEmptySelectionIsRejectedBeforeMetrics(t *testing.T) {
	svc, _ := loadedService(t)

	req := AnalysisRequest{Countries: nil, FromYear: 2018, ToYear: 2020}
	_, err := svc.Metrics(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptySelection))

	_, err = svc.Observations(context.Background(), req)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeEmptySelection))
}

func TestUnknownCountryIsRejected(t *testing.T) {
	svc, _ := loadedService(t)

	req := AnalysisRequest{Countries: []string{"Atlantis"}, FromYear: 2018, ToYear: 2020}
	_, err := svc.Observations(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestInvalidRangeIsRejected(t *testing.T) {
	svc, _ := loadedService(t)

	req := AnalysisRequest{Countries: []string{"Bangladesh"}, FromYear: 2020, ToYear: 2018}
	_, err := svc.Observations(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeInvalidRange))
}

func TestMetrics(t *testing.T) {
	svc, _ := loadedService(t)

	result, err := svc.Metrics(context.Background(), allCountriesRequest())
	require.NoError(t, err)

	assert.Equal(t, 2019, result.Summary.PeakDebtYear)
	assert.Equal(t, "Bangladesh", result.Summary.TopDebtor,
		"identical totals tie-break to the first enumerated country")
	assert.Len(t, result.GrowthStats, len(domain.Countries))
	assert.NotEmpty(t, result.TopByDebt)
	assert.NotEmpty(t, result.TopByGrowth)
}

func TestPivotSumMatchesTotal(t *testing.T) {
	svc, _ := loadedService(t)
	ctx := context.Background()

	pivot, err := svc.PivotTable(ctx, allCountriesRequest())
	require.NoError(t, err)

	metrics, err := svc.Metrics(ctx, allCountriesRequest())
	require.NoError(t, err)

	var cellSum float64
	for _, row := range pivot.Cells {
		for _, v := range row {
			cellSum += v
		}
	}
	assert.InDelta(t, metrics.Summary.TotalDebt, cellSum, 1e-9)
}

func TestReportAndExport(t *testing.T) {
	svc, _ := loadedService(t)
	ctx := context.Background()

	report, err := svc.Report(ctx, allCountriesRequest())
	require.NoError(t, err)
	assert.Contains(t, report, "Peak Year: 2019")

	data, err := svc.ExportCSV(ctx, allCountriesRequest())
	require.NoError(t, err)
	assert.Contains(t, string(data), "Country,Country_Code,Year,Debt_USD,YoY_Growth_Pct")
}

func TestWriteArtifacts(t *testing.T) {
	svc, paths := loadedService(t)

	reportPath, csvPath, err := svc.WriteArtifacts(context.Background(), allCountriesRequest())
	require.NoError(t, err)

	for _, p := range []string{reportPath, csvPath} {
		info, statErr := os.Stat(p)
		require.NoError(t, statErr)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, reportPath, paths.ReportsDir)
}

func TestCountriesInfo(t *testing.T) {
	svc, _ := loadedService(t)

	info, err := svc.Countries()
	require.NoError(t, err)
	assert.Equal(t, domain.Countries, info.Countries)
	assert.Equal(t, 2018, info.MinYear)
	assert.Equal(t, 2020, info.MaxYear)
}
