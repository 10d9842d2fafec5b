// Package router assembles the HTTP surface: the public intake routes, the
// authenticated API behind the JWT middleware and the permission table, and
// the operational endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/auth"
	"github.com/openats/openats/internal/container"
)

// SetupRouter mounts every route onto a fresh sub-router. Global middleware
// (request id, logging, recovery, timeouts, metrics) is attached by the
// caller before this router.
func SetupRouter(c *container.Container) chi.Router {
	r := chi.NewRouter()
	logger := c.Logger

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		api.SuccessResponse(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/metrics", c.Metrics.Handler().ServeHTTP)
	r.Get("/ws", c.WSHandler.Serve)
	r.Get("/api-docs", docsIndex)

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated surface.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", c.AuthHandler.Register)
			r.Post("/login", c.AuthHandler.Login)
			r.Post("/refresh", c.AuthHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate(logger, c.TokenService))
				r.Get("/me", c.AuthHandler.Me)
			})
		})

		r.Route("/public", func(r chi.Router) {
			r.Get("/jobs", c.PublicHandler.ListJobs)
			r.Get("/jobs/{id}", c.PublicHandler.GetJob)
			r.Post("/applications", c.PublicHandler.Apply)
			r.Get("/applications/track/{token}", c.PublicHandler.Track)
		})

		// Authenticated surface. Reads need a valid token; writes also pass
		// the permission table.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(logger, c.TokenService))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", c.UserHandler.List)
				r.Get("/{id}", c.UserHandler.Get)
				r.With(auth.Require(logger, "users.create")).Post("/", c.UserHandler.Create)
				r.With(auth.Require(logger, "users.update")).Put("/{id}", c.UserHandler.Update)
				r.With(auth.Require(logger, "users.delete")).Delete("/{id}", c.UserHandler.Delete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", c.JobHandler.List)
				r.Get("/{id}", c.JobHandler.Get)
				r.Get("/{id}/pipeline", c.JobHandler.Pipeline)
				r.With(auth.Require(logger, "jobs.create")).Post("/", c.JobHandler.Create)
				r.With(auth.Require(logger, "jobs.update")).Put("/{id}", c.JobHandler.Update)
				r.With(auth.Require(logger, "jobs.delete")).Delete("/{id}", c.JobHandler.Delete)
			})

			r.Route("/candidates", func(r chi.Router) {
				r.Get("/", c.CandidateHandler.List)
				r.Get("/{id}", c.CandidateHandler.Get)
				r.Get("/{id}/applications", c.CandidateHandler.Applications)
				r.With(auth.Require(logger, "candidates.create")).Post("/", c.CandidateHandler.Create)
				r.With(auth.Require(logger, "candidates.update")).Put("/{id}", c.CandidateHandler.Update)
				r.With(auth.Require(logger, "candidates.delete")).Delete("/{id}", c.CandidateHandler.Delete)
			})

			r.Route("/applications", func(r chi.Router) {
				r.Get("/", c.ApplicationHandler.List)
				r.Get("/{id}", c.ApplicationHandler.Get)
				r.Post("/", c.ApplicationHandler.Create)
				r.With(auth.Require(logger, "applications.update")).Put("/{id}", c.ApplicationHandler.Update)
				r.With(auth.Require(logger, "applications.status")).Patch("/{id}/status", c.ApplicationHandler.UpdateStatus)
				r.With(auth.Require(logger, "applications.notes")).Post("/{id}/notes", c.ApplicationHandler.AddNote)
				r.With(auth.Require(logger, "applications.delete")).Delete("/{id}", c.ApplicationHandler.Delete)
			})

			r.Route("/interviews", func(r chi.Router) {
				r.Get("/", c.InterviewHandler.List)
				r.Get("/my", c.InterviewHandler.My)
				r.Get("/{id}", c.InterviewHandler.Get)
				r.Post("/{id}/feedback", c.InterviewHandler.AddFeedback)
				r.With(auth.Require(logger, "interviews.create")).Post("/", c.InterviewHandler.Create)
				r.With(auth.Require(logger, "interviews.update")).Put("/{id}", c.InterviewHandler.Update)
				r.With(auth.Require(logger, "interviews.delete")).Delete("/{id}", c.InterviewHandler.Delete)
			})

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", c.TaskHandler.List)
				r.Get("/my", c.TaskHandler.My)
				r.Get("/overdue", c.TaskHandler.Overdue)
				r.Get("/{id}", c.TaskHandler.Get)
				r.Put("/{id}", c.TaskHandler.Update)
				r.With(auth.Require(logger, "tasks.create")).Post("/", c.TaskHandler.Create)
				r.With(auth.Require(logger, "tasks.delete")).Delete("/{id}", c.TaskHandler.Delete)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(auth.Require(logger, "reports.view"))
				r.Get("/dashboard", c.ReportHandler.Dashboard)
				r.Get("/pipeline", c.ReportHandler.Pipeline)
				r.Get("/sources", c.ReportHandler.Sources)
				r.Get("/time-to-hire", c.ReportHandler.TimeToHire)
				r.Get("/export", c.ReportHandler.Export)
			})
		})
	})

	return r
}

// docsIndex serves a minimal machine-readable route index.
func docsIndex(w http.ResponseWriter, r *http.Request) {
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{
		"name":    "openats",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"auth":         "/api/auth",
			"users":        "/api/users",
			"jobs":         "/api/jobs",
			"candidates":   "/api/candidates",
			"applications": "/api/applications",
			"interviews":   "/api/interviews",
			"tasks":        "/api/tasks",
			"reports":      "/api/reports",
			"public":       "/api/public",
			"websocket":    "/ws",
		},
	})
}
