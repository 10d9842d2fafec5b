package interview

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

// List handles GET /api/interviews.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := models.InterviewFilters{
		Pagination:    api.ParsePagination(r),
		JobID:         q.Get("jobId"),
		CandidateID:   q.Get("candidateId"),
		ApplicationID: q.Get("applicationId"),
		Status:        models.InterviewStatus(q.Get("status")),
		InterviewerID: q.Get("interviewerId"),
	}

	interviews, total, err := h.service.List(r.Context(), f)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list interviews")
		return
	}
	api.ListResponse(w, r, interviews, total, f.PageOrDefault(), f.LimitOrDefault())
}

// My handles GET /api/interviews/my, the caller's upcoming agenda.
func (h *Handler) My(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	p := api.ParsePagination(r)
	interviews, total, err := h.service.Upcoming(r.Context(), userID, p.Page, p.Limit)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to list interviews")
		return
	}
	api.ListResponse(w, r, interviews, total, p.Page, p.Limit)
}

// Get handles GET /api/interviews/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	interview, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to fetch interview")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, interview)
}

// Create handles POST /api/interviews.
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

	interview, err := h.service.Create(r.Context(), actorID, req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Interview scheduling failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Failed to schedule interview")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, interview)
}

// Update handles PUT /api/interviews/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := api.DecodeJSONBody(w, r, &partial); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	interview, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), partial)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to update interview")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, interview)
}

// AddFeedback handles POST /api/interviews/{id}/feedback.
func (h *Handler) AddFeedback(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req FeedbackRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	interview, err := h.service.AddFeedback(r.Context(), chi.URLParam(r, "id"), actorID, req)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to record feedback")
		return
	}
	api.SuccessResponse(w, r, http.StatusCreated, interview)
}

// Delete handles DELETE /api/interviews/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to delete interview")
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, nil)
}
