package auth

import (
	"log/slog"
	"net/http"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

// Permissions enumerates every role-gated operation and its allowed role
// set. Routes with no entry here require authentication only. Kept as one
// table so the whole access policy is reviewable in a single place.
var Permissions = map[string][]models.UserRole{
	"users.create": {models.RoleAdmin},
	"users.update": {models.RoleAdmin, models.RoleRecruiter},
	"users.delete": {models.RoleAdmin},

	"jobs.create": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"jobs.update": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"jobs.delete": {models.RoleAdmin, models.RoleRecruiter},

	"candidates.create": {models.RoleAdmin, models.RoleRecruiter},
	"candidates.update": {models.RoleAdmin, models.RoleRecruiter},
	"candidates.delete": {models.RoleAdmin, models.RoleRecruiter},

	"applications.update": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"applications.status": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"applications.notes":  {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager, models.RoleInterviewer},
	"applications.delete": {models.RoleAdmin, models.RoleRecruiter},

	"interviews.create": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"interviews.update": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"interviews.delete": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},

	"tasks.create": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
	"tasks.delete": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},

	"reports.view": {models.RoleAdmin, models.RoleRecruiter, models.RoleHiringManager},
}

// Require gates a route on the permission table entry for op. Runs after
// Authenticate; 403 when the caller's role is not in the allowed set.
func Require(logger *slog.Logger, op string) func(next http.Handler) http.Handler {
	allowed, known := Permissions[op]
	roleSet := make(map[models.UserRole]struct{}, len(allowed))
	for _, role := range allowed {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			role, ok := GetUserRoleFromContext(ctx)
			if !ok {
				logger.ErrorContext(ctx, "Role claim missing from context", slog.String("operation", op))
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Not authenticated")
				return
			}

			if !known {
				logger.ErrorContext(ctx, "Operation missing from permission table", slog.String("operation", op))
				api.ErrorResponse(w, r, http.StatusForbidden, "Insufficient permissions")
				return
			}

			if _, allowed := roleSet[role]; !allowed {
				logger.WarnContext(ctx, "Role not permitted for operation",
					slog.String("operation", op),
					slog.String("role", string(role)),
				)
				api.ErrorResponse(w, r, http.StatusForbidden, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
