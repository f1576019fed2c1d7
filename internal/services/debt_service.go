package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"debtboard/internal/analysis"
	"debtboard/internal/config"
	"debtboard/internal/dataset"
	apperrors "debtboard/internal/errors"
	"debtboard/internal/exporter"
	"debtboard/pkg/contracts/domain"
)

// AnalysisRequest is the filter parameter pair every interaction carries:
// the selected countries and the inclusive year range.
type AnalysisRequest struct {
	Countries []string `json:"countries" validate:"required,min=1,dive,required"`
	FromYear  int      `json:"from_year" validate:"required"`
	ToYear    int      `json:"to_year" validate:"required"`
}

// MetricsResult bundles everything the metrics view renders.
type MetricsResult struct {
	Summary     *analysis.Summary      `json:"summary"`
	GrowthStats []analysis.GrowthStats `json:"growth_stats"`
	TopByDebt   domain.Table           `json:"top_by_debt"`
	TopByGrowth domain.Table           `json:"top_by_growth"`
	Correlation *analysis.Correlation  `json:"correlation,omitempty"`
}

// CountriesInfo describes the fixed country set and the observed bounds
// of the canonical table, used to initialize the dashboard controls.
type CountriesInfo struct {
	Countries []domain.Country `json:"countries"`
	MinYear   int              `json:"min_year"`
	MaxYear   int              `json:"max_year"`
}

// HealthStatus reports the load state of the canonical table.
type HealthStatus struct {
	Status          string    `json:"status"`
	Observations    int       `json:"observations"`
	CountriesLoaded int       `json:"countries_loaded"`
	CountriesFailed []string  `json:"countries_failed,omitempty"`
	LoadedAt        time.Time `json:"loaded_at"`
}

// DebtService owns the canonical table and orchestrates every user
// interaction: filter, metrics, pivot, report and export all run through
// it. The table is cached keyed by a fingerprint of the source files and
// only rebuilt when the fingerprint changes or a reload is forced.
type DebtService struct {
	paths    *config.Paths
	logger   *slog.Logger
	loader   *dataset.Loader
	csv      *exporter.CSVWriter
	reports  *exporter.ReportBuilder
	validate *validator.Validate

	mu          sync.RWMutex
	table       domain.Table
	fingerprint string
	loadedAt    time.Time
	failures    []dataset.LoadFailure
}

// NewDebtService creates the service. The table is not loaded yet; call
// Reload before serving.
func NewDebtService(paths *config.Paths, logger *slog.Logger) *DebtService {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "debt_service"))
	return &DebtService{
		paths:    paths,
		logger:   logger,
		loader:   dataset.NewLoader(paths, logger),
		csv:      exporter.NewCSVWriter(logger),
		reports:  exporter.NewReportBuilder(),
		validate: validator.New(),
	}
}

// Reload rebuilds the canonical table when the source fingerprint changed
// or force is set. The previous table keeps serving until the new one is
// fully built; readers never observe a partial load.
func (s *DebtService) Reload(ctx context.Context, force bool) error {
	fp := dataset.Fingerprint(s.paths)

	s.mu.RLock()
	unchanged := !force && fp == s.fingerprint && s.table != nil
	s.mu.RUnlock()
	if unchanged {
		s.logger.DebugContext(ctx, "sources unchanged, keeping cached table",
			slog.String("fingerprint", fp[:12]))
		return nil
	}

	start := time.Now()
	result, err := s.loader.LoadAll(ctx)
	if err != nil {
		return err
	}

	for i := range result.Tables {
		dataset.NormalizeHeaders(&result.Tables[i])
	}

	table, err := dataset.Preprocess(result.Tables)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeCoercion, "preprocessing failed", err)
	}

	s.mu.Lock()
	s.table = table
	s.fingerprint = fp
	s.loadedAt = time.Now()
	s.failures = result.Failures
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "canonical table rebuilt",
		slog.Int("observations", len(table)),
		slog.Int("countries_loaded", len(result.Tables)),
		slog.Int("countries_failed", len(result.Failures)),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

// Table returns the canonical table, or NoDataLoaded before a successful
// load.
func (s *DebtService) Table() (domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.table == nil {
		return nil, apperrors.NewNoDataLoadedError(apperrors.ErrNoDataLoaded)
	}
	return s.table, nil
}

// Countries returns the fixed country list and the observed year bounds.
func (s *DebtService) Countries() (*CountriesInfo, error) {
	table, err := s.Table()
	if err != nil {
		return nil, err
	}
	lo, hi, _ := table.YearBounds()
	return &CountriesInfo{Countries: domain.Countries, MinYear: lo, MaxYear: hi}, nil
}

// Observations returns the filtered view for the request.
func (s *DebtService) Observations(ctx context.Context, req AnalysisRequest) (domain.Table, error) {
	return s.filteredView(ctx, req)
}

// Metrics computes the summary metrics of the filtered view.
func (s *DebtService) Metrics(ctx context.Context, req AnalysisRequest) (*MetricsResult, error) {
	view, err := s.filteredView(ctx, req)
	if err != nil {
		return nil, err
	}

	summary, err := analysis.Summarize(view)
	if err != nil {
		return nil, err
	}

	return &MetricsResult{
		Summary:     summary,
		GrowthStats: analysis.GrowthStatsByCountry(view),
		TopByDebt:   analysis.TopNByDebt(view, analysis.TopN),
		TopByGrowth: analysis.TopNByGrowth(view, analysis.TopN),
		Correlation: analysis.Correlate(view),
	}, nil
}

// PivotTable computes the year-by-country debt matrix of the filtered view.
func (s *DebtService) PivotTable(ctx context.Context, req AnalysisRequest) (*analysis.Pivot, error) {
	view, err := s.filteredView(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(view) == 0 {
		return nil, apperrors.NewEmptySelectionError("no observations match the selection")
	}
	return analysis.BuildPivot(view), nil
}

// Report renders the plain-text analysis report for the request.
func (s *DebtService) Report(ctx context.Context, req AnalysisRequest) (string, error) {
	view, err := s.filteredView(ctx, req)
	if err != nil {
		return "", err
	}
	summary, err := analysis.Summarize(view)
	if err != nil {
		return "", err
	}
	return s.reports.Build(exporter.ReportInput{
		Summary:   summary,
		Countries: req.Countries,
		FromYear:  req.FromYear,
		ToYear:    req.ToYear,
	}), nil
}

// ExportCSV serializes the filtered view as a CSV download.
func (s *DebtService) ExportCSV(ctx context.Context, req AnalysisRequest) ([]byte, error) {
	view, err := s.filteredView(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(view) == 0 {
		return nil, apperrors.NewEmptySelectionError("no observations match the selection")
	}
	return s.csv.Encode(view)
}

// WriteArtifacts writes both report and CSV export to the reports dir,
// returning their paths. Used by the one-shot CLI.
func (s *DebtService) WriteArtifacts(ctx context.Context, req AnalysisRequest) (reportPath, csvPath string, err error) {
	view, err := s.filteredView(ctx, req)
	if err != nil {
		return "", "", err
	}
	summary, err := analysis.Summarize(view)
	if err != nil {
		return "", "", err
	}

	reportPath, err = s.reports.WriteFile(s.paths.ReportsDir, exporter.ReportInput{
		Summary:   summary,
		Countries: req.Countries,
		FromYear:  req.FromYear,
		ToYear:    req.ToYear,
	})
	if err != nil {
		return "", "", err
	}

	csvPath = fmt.Sprintf("%s/debt_analysis_%s.csv", s.paths.ReportsDir,
		time.Now().Format("20060102_150405"))
	if err := s.csv.WriteFile(csvPath, view); err != nil {
		return "", "", err
	}
	return reportPath, csvPath, nil
}

// Health reports the load state.
func (s *DebtService) Health() HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := HealthStatus{LoadedAt: s.loadedAt}
	if s.table == nil {
		status.Status = "no_data"
		return status
	}

	status.Status = "ok"
	status.Observations = len(s.table)
	status.CountriesLoaded = len(domain.Countries) - len(s.failures)
	for _, f := range s.failures {
		status.CountriesFailed = append(status.CountriesFailed, f.Country.Name)
		status.Status = "degraded"
	}
	return status
}

// filteredView validates the request and applies the filter engine. The
// non-empty-selection precondition is enforced here, before any metric
// can run over zero rows.
func (s *DebtService) filteredView(ctx context.Context, req AnalysisRequest) (domain.Table, error) {
	if err := s.validate.Struct(req); err != nil {
		if len(req.Countries) == 0 {
			return nil, apperrors.NewEmptySelectionError("select at least one country to analyze")
		}
		return nil, apperrors.NewValidationError("invalid analysis request", err)
	}

	for _, name := range req.Countries {
		if _, ok := domain.CountryByName(name); !ok {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("unknown country %q", name), nil)
		}
	}

	table, err := s.Table()
	if err != nil {
		return nil, err
	}

	view, err := analysis.Filter(table, req.Countries, req.FromYear, req.ToYear)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "filtered view computed",
		slog.Int("rows", len(view)),
		slog.Int("from", req.FromYear),
		slog.Int("to", req.ToYear),
		slog.Int("countries", len(req.Countries)))
	return view, nil
}
