package exporter

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debtboard/internal/analysis"
)

func reportInput() ReportInput {
	return ReportInput{
		Summary: &analysis.Summary{
			TotalDebt:          2.5e9,
			AverageDebt:        125e6,
			AverageGrowth:      4.2,
			AverageGrowthValid: true,
			PeakDebtYear:       2019,
			TopDebtor:          "Bangladesh",
		},
		Countries: []string{"Bangladesh", "Nepal"},
		FromYear:  2010,
		ToYear:    2020,
	}
}

func TestReportBuild(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	b := NewReportBuilderWithClock(func() time.Time { return fixed })

	report := b.Build(reportInput())

	assert.Contains(t, report, "Generated on: 2024-03-01 12:30:00")
	assert.Contains(t, report, "Analysis Period: 2010 to 2020")
	assert.Contains(t, report, "Countries Analyzed: Bangladesh, Nepal")
	assert.Contains(t, report, "Total Debt Analyzed: $2.50 billion")
	assert.Contains(t, report, "Average Annual Debt: $125.0 million")
	assert.Contains(t, report, "Number of Countries: 2")
	assert.Contains(t, report, "Analysis Period: 11 years")
	assert.Contains(t, report, "Top Debtor: Bangladesh")
	assert.Contains(t, report, "Peak Year: 2019")
	assert.Contains(t, report, "Average Growth Rate: 4.20%")
}

func TestReportBuildDeterministicWithFixedClock(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	b := NewReportBuilderWithClock(func() time.Time { return fixed })

	assert.Equal(t, b.Build(reportInput()), b.Build(reportInput()))
}

func TestReportUndefinedGrowth(t *testing.T) {
	in := reportInput()
	in.Summary.AverageGrowthValid = false

	report := NewReportBuilder().Build(in)
	assert.Contains(t, report, "Average Growth Rate: n/a",
		"undefined growth renders as n/a, never as a numeric zero")
}

func TestReportWriteFile(t *testing.T) {
	dir := t.TempDir()
	b := NewReportBuilder()

	path, err := b.WriteFile(dir, reportInput())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "World Bank Debt Analysis Report")
}
