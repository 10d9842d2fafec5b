package auth

import (
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

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Registration failed", slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Registration failed")
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Login failed", slog.String("email", req.Email), slog.Any("error", err))
		api.DomainErrorResponse(w, r, err, "Login failed")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, resp)
}

// Refresh handles POST /api/auth/refresh.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Token refresh failed")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.service.Me(r.Context(), userID)
	if err != nil {
		api.DomainErrorResponse(w, r, err, "Failed to get user")
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, profile)
}
