package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/openats/openats/internal/api"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Dashboard handles GET /api/reports/dashboard.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to build dashboard")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, d)
}

// Pipeline handles GET /api/reports/pipeline.
func (h *Handler) Pipeline(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.Pipeline(r.Context())
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to build pipeline report")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, reports)
}

// Sources handles GET /api/reports/sources.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.Sources(r.Context())
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to build source report")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, reports)
}

// TimeToHire handles GET /api/reports/time-to-hire.
func (h *Handler) TimeToHire(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.TimeToHire(r.Context())
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to build time-to-hire report")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, report)
}

// Export handles GET /api/reports/export, streaming the application book as
// CSV.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	if p.Limit < 100 {
		p.Limit = 1000
	}

	apps, err := h.service.Applications(r.Context(), p.Page, p.Limit)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to export applications")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="applications.csv"`)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "jobId", "candidateId", "status", "currentStageId", "source", "appliedAt", "rating"}); err != nil {
		h.logger.ErrorContext(r.Context(), "CSV export failed", slog.Any("error", err))
		return
	}
	for _, a := range apps {
		record := []string{
			a.ID, a.JobID, a.CandidateID, string(a.Status),
			a.CurrentStageID, a.Source, a.AppliedAt, fmt.Sprintf("%d", a.Rating),
		}
		if err := cw.Write(record); err != nil {
			h.logger.ErrorContext(r.Context(), "CSV export failed", slog.Any("error", err))
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.ErrorContext(r.Context(), "CSV export failed", slog.Any("error", err))
	}
}
