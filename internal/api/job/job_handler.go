package job

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/auth"
	"github.com/openats/openats/internal/models"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List handles GET /api/jobs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.JobFilters{
		Pagination:      api.ParsePagination(r),
		Status:          models.JobStatus(q.Get("status")),
		Type:            q.Get("type"),
		Department:      q.Get("department"),
		Location:        q.Get("location"),
		ExperienceLevel: q.Get("experienceLevel"),
		RecruiterID:     q.Get("recruiterId"),
		Search:          q.Get("search"),
	}

	jobs, total, err := h.service.List(r.Context(), f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list jobs")
		return
	}
	api.ListResponse(w, r, jobs, total, f.PageOrDefault(), f.LimitOrDefault())
}

// Get handles GET /api/jobs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch job")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, job)
}

// Create handles POST /api/jobs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	recruiterID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.service.Create(r.Context(), recruiterID, req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Job creation failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create job")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, job)
}

// Update handles PUT /api/jobs/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := api.DecodeJSONBody(w, r, &partial); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update job")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, job)
}

// Delete handles DELETE /api/jobs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to delete job")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, nil)
}

// Pipeline handles GET /api/jobs/{id}/pipeline.
func (h *Handler) Pipeline(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.Pipeline(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch pipeline")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, stages)
}
