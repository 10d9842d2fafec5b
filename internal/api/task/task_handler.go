package task

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

func filtersFromQuery(r *http.Request) models.TaskFilters {
	q := r.URL.Query()
	return models.TaskFilters{
		Pagination: api.ParsePagination(r),
		AssigneeID: q.Get("assigneeId"),
		Status:     models.TaskStatus(q.Get("status")),
		Priority:   q.Get("priority"),
	}
}

// List handles GET /api/tasks.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := filtersFromQuery(r)
	tasks, total, err := h.service.List(r.Context(), f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list tasks")
		return
	}
	api.ListResponse(w, r, tasks, total, f.PageOrDefault(), f.LimitOrDefault())
}

// My handles GET /api/tasks/my.
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	f := filtersFromQuery(r)
	tasks, total, err := h.service.My(r.Context(), userID, f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list tasks")
		return
	}
	api.ListResponse(w, r, tasks, total, f.PageOrDefault(), f.LimitOrDefault())
}

// Overdue handles GET /api/tasks/overdue.
func (h *Handler) Overdue(w http.ResponseWriter, r *http.Request) {
	p := api.ParsePagination(r)
	tasks, total, err := h.service.Overdue(r.Context(), r.URL.Query().Get("assigneeId"), p.Page, p.Limit)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list overdue tasks")
		return
	}
	api.ListResponse(w, r, tasks, total, p.Page, p.Limit)
}

// Get handles GET /api/tasks/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch task")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, task)
}

// Create handles POST /api/tasks.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Task creation failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create task")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, task)
}

// Update handles PUT /api/tasks/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := api.DecodeJSONBody(w, r, &partial); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update task")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, task)
}

// Delete handles DELETE /api/tasks/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to delete task")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, nil)
}
