// Command report runs the analysis once and writes the text report and the
// CSV export to the reports directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"debtboard/internal/config"
	"debtboard/internal/infrastructure"
	"debtboard/internal/services"
	"debtboard/pkg/contracts/domain"
)

func main() {
	countriesFlag := flag.String("countries", strings.Join(domain.CountryNames(), ","),
		"comma-separated country display names to analyze")
	fromFlag := flag.Int("from", 0, "first year of the analysis period (default: earliest observed)")
	toFlag := flag.Int("to", 0, "last year of the analysis period (default: latest observed)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		logger.Error("failed to resolve paths", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := paths.EnsureDirs(); err != nil {
		logger.Error("failed to create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	svc := services.NewDebtService(paths, logger)
	if err := svc.Reload(ctx, false); err != nil {
		logger.Error("data load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	req := services.AnalysisRequest{FromYear: *fromFlag, ToYear: *toFlag}
	for _, name := range strings.Split(*countriesFlag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			req.Countries = append(req.Countries, name)
		}
	}

	if req.FromYear == 0 || req.ToYear == 0 {
		table, err := svc.Table()
		if err != nil {
			logger.Error("no data loaded", slog.String("error", err.Error()))
			os.Exit(1)
		}
		lo, hi, _ := table.YearBounds()
		if req.FromYear == 0 {
			req.FromYear = lo
		}
		if req.ToYear == 0 {
			req.ToYear = hi
		}
	}

	reportPath, csvPath, err := svc.WriteArtifacts(ctx, req)
	if err != nil {
		logger.Error("report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("report: %s\ncsv:    %s\n", reportPath, csvPath)
}
