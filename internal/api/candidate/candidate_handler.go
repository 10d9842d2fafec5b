package candidate

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List handles GET /api/candidates. Skills arrive as a comma-separated query
// param and match any-of against the stored skill set.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.CandidateFilters{
		Pagination: api.ParsePagination(r),
		Source:     q.Get("source"),
		Search:     q.Get("search"),
	}
	if v := q.Get("skills"); v != "" {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				f.Skills = append(f.Skills, s)
			}
		}
	}
	if v, err := strconv.Atoi(q.Get("experienceMin")); err == nil && v > 0 {
		f.ExperienceMin = v
	}

	candidates, total, err := h.service.List(r.Context(), f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list candidates")
		return
	}
	api.ListResponse(w, r, candidates, total, f.PageOrDefault(), f.LimitOrDefault())
}

// Get handles GET /api/candidates/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch candidate")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, candidate)
}

// Applications handles GET /api/candidates/{id}/applications.
func (h *Handler) Applications(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	apps, total, err := h.service.Applications(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list candidate applications")
		return
	}
	api.ListResponse(w, r, apps, total, p.PageOrDefault(), p.LimitOrDefault())
}

// Create handles POST /api/candidates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	candidate, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Candidate creation failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create candidate")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, candidate)
}

// Update handles PUT /api/candidates/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := api.DecodeJSONBody(w, r, &partial); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	candidate, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update candidate")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, candidate)
}

// Delete handles DELETE /api/candidates/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to delete candidate")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, nil)
}
