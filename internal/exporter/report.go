package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"debtboard/internal/analysis"
)

// ReportInput carries everything the text report embeds.
type ReportInput struct {
	Summary     *analysis.Summary
	Countries   []string
	FromYear    int
	ToYear      int
	GeneratedAt time.Time
}

// ReportBuilder renders the plain-text analysis report.
type ReportBuilder struct {
	clock func() time.Time
}

// NewReportBuilder creates a report builder using the wall clock.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{clock: time.Now}
}

// NewReportBuilderWithClock creates a report builder with a fixed clock,
// used by tests for deterministic output.
func NewReportBuilderWithClock(clock func() time.Time) *ReportBuilder {
	return &ReportBuilder{clock: clock}
}

// Build renders the report text. Apart from the generation timestamp the
// output is a pure function of the input.
func (b *ReportBuilder) Build(in ReportInput) string {
	generated := in.GeneratedAt
	if generated.IsZero() {
		generated = b.clock()
	}

	avgGrowth := "n/a"
	if in.Summary.AverageGrowthValid {
		avgGrowth = fmt.Sprintf("%.2f%%", in.Summary.AverageGrowth)
	}

	var sb strings.Builder
	sb.WriteString("# World Bank Debt Analysis Report\n")
	fmt.Fprintf(&sb, "Generated on: %s\n", generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "Analysis Period: %d to %d\n", in.FromYear, in.ToYear)
	fmt.Fprintf(&sb, "Countries Analyzed: %s\n", strings.Join(in.Countries, ", "))
	sb.WriteString("\n## Executive Summary\n")
	fmt.Fprintf(&sb, "- Total Debt Analyzed: $%.2f billion\n", in.Summary.TotalDebt/1e9)
	fmt.Fprintf(&sb, "- Average Annual Debt: $%.1f million\n", in.Summary.AverageDebt/1e6)
	fmt.Fprintf(&sb, "- Number of Countries: %d\n", len(in.Countries))
	fmt.Fprintf(&sb, "- Analysis Period: %d years\n", in.ToYear-in.FromYear+1)
	sb.WriteString("\n## Key Findings\n")
	fmt.Fprintf(&sb, "- Top Debtor: %s\n", in.Summary.TopDebtor)
	fmt.Fprintf(&sb, "- Peak Year: %d\n", in.Summary.PeakDebtYear)
	fmt.Fprintf(&sb, "- Average Growth Rate: %s\n", avgGrowth)
	return sb.String()
}

// WriteFile renders the report and writes it under dir with a unique
// timestamped name, returning the full path.
func (b *ReportBuilder) WriteFile(dir string, in ReportInput) (string, error) {
	content := b.Build(in)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	name := fmt.Sprintf("debt_report_%s_%s.txt",
		b.clock().Format("20060102_150405"), uuid.New().String()[:8])
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
