package http

import (
	"context"

	"debtboard/internal/analysis"
	"debtboard/internal/services"
	"debtboard/pkg/contracts/domain"
)

// DebtServiceInterface is the contract the debt handler depends on.
// Satisfied by services.DebtService; tests substitute a stub.
type DebtServiceInterface interface {
	Countries() (*services.CountriesInfo, error)
	Observations(ctx context.Context, req services.AnalysisRequest) (domain.Table, error)
	Metrics(ctx context.Context, req services.AnalysisRequest) (*services.MetricsResult, error)
	PivotTable(ctx context.Context, req services.AnalysisRequest) (*analysis.Pivot, error)
	Report(ctx context.Context, req services.AnalysisRequest) (string, error)
	ExportCSV(ctx context.Context, req services.AnalysisRequest) ([]byte, error)
	Reload(ctx context.Context, force bool) error
	Health() services.HealthStatus
}
