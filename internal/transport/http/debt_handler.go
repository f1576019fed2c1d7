package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "debtboard/internal/errors"
	"debtboard/internal/services"
)

// DebtHandler serves the analysis API: countries, filtered observations,
// summary metrics, pivot, report and CSV export.
type DebtHandler struct {
	service      DebtServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(service DebtServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DebtHandler {
	return &DebtHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "debt_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes
func (h *DebtHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/countries", h.GetCountries)
	r.Get("/observations", h.GetObservations)
	r.Get("/metrics", h.GetMetrics)
	r.Get("/pivot", h.GetPivot)
	r.Get("/report", h.GetReport)
	r.Get("/export/csv", h.ExportCSV)
	r.Post("/reload", h.Reload)

	return r
}

// GetCountries handles GET /api/countries
func (h *DebtHandler) GetCountries(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Countries()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetObservations handles GET /api/observations
func (h *DebtHandler) GetObservations(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Observations(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"observations": view,
		"count":        len(view),
	})
}

// GetMetrics handles GET /api/metrics
func (h *DebtHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Metrics(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

// GetPivot handles GET /api/pivot
func (h *DebtHandler) GetPivot(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	pivot, err := h.service.PivotTable(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, pivot)
}

// GetReport handles GET /api/report, answering text/plain
func (h *DebtHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Report(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(report))
}

// ExportCSV handles GET /api/export/csv as an attachment download
func (h *DebtHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	req, err := parseAnalysisRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	data, err := h.service.ExportCSV(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := fmt.Sprintf("debt_analysis_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Write(data)
}

// Reload handles POST /api/reload, forcing a canonical-table rebuild
func (h *DebtHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context(), true); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, h.service.Health())
}

// parseAnalysisRequest extracts the filter parameters from the query
// string: countries as a comma-separated list (repeatable), from and to
// as integer years.
func parseAnalysisRequest(r *http.Request) (services.AnalysisRequest, error) {
	var req services.AnalysisRequest

	for _, raw := range r.URL.Query()["countries"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				req.Countries = append(req.Countries, name)
			}
		}
	}

	from, err := parseYearParam(r, "from")
	if err != nil {
		return req, err
	}
	to, err := parseYearParam(r, "to")
	if err != nil {
		return req, err
	}
	req.FromYear, req.ToYear = from, to

	return req, nil
}

func parseYearParam(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apierrors.NewValidationError(
			fmt.Sprintf("query parameter %q is required", name), nil)
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.NewValidationError(
			fmt.Sprintf("query parameter %q must be an integer year", name), err)
	}
	return year, nil
}
