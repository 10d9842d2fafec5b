package public

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openats/openats/internal/api"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// ListJobs handles GET /api/public/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	jobs, total, err := h.service.OpenJobs(r.Context(), p.Page, p.Limit)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list jobs")
		return
	}
	api.ListResponse(w, r, jobs, total, p.Page, p.Limit)
}

// GetJob handles GET /api/public/jobs/{id}.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.OpenJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch job")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, job)
}

// Apply handles POST /api/public/applications.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Submit(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Public application rejected", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to submit application")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, resp)
}

// Track handles GET /api/public/applications/track/{token}.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Track(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to track application")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, view)
}
