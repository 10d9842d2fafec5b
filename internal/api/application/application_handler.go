package application

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

// List handles GET /api/applications.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.ApplicationFilters{
		Pagination:  api.ParsePagination(r),
		JobID:       q.Get("jobId"),
		CandidateID: q.Get("candidateId"),
		Status:      models.ApplicationStatus(q.Get("status")),
		Source:      q.Get("source"),
		DateFrom:    q.Get("dateFrom"),
		DateTo:      q.Get("dateTo"),
	}

	apps, total, err := h.service.List(r.Context(), f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list applications")
		return
	}
	api.ListResponse(w, r, apps, total, f.PageOrDefault(), f.LimitOrDefault())
}

// Get handles GET /api/applications/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	app, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch application")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, app)
}

// Create handles POST /api/applications.
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

	app, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Application creation failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to create application")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, app)
}

// Update handles PUT /api/applications/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := api.DecodeJSONBody(w, r, &partial); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update application")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, app)
}

// UpdateStatus handles PATCH /api/applications/{id}/status. The body may
// carry a status, a stageId, or both.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, _ := auth.GetUserIDFromContext(r.Context())

	var req StatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), actorID, req)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update application status")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, app)
}

// AddNote handles POST /api/applications/{id}/notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	actorID, _ := auth.GetUserIDFromContext(r.Context())

	var req NoteRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	app, err := h.service.AddNote(r.Context(), chi.URLParam(r, "id"), actorID, req.Content)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to add note")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, app)
}

// Delete handles DELETE /api/applications/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to delete application")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, nil)
}
