// Package container wires the application graph: the connection pool, the
// document store, one repository/service/handler triplet per entity, and the
// notification hub.
package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/openats/openats/app/db"
	"github.com/openats/openats/config"
	"github.com/openats/openats/internal/api/application"
	"github.com/openats/openats/internal/api/auth"
	"github.com/openats/openats/internal/api/candidate"
	"github.com/openats/openats/internal/api/interview"
	"github.com/openats/openats/internal/api/job"
	"github.com/openats/openats/internal/api/public"
	"github.com/openats/openats/internal/api/report"
	"github.com/openats/openats/internal/api/task"
	"github.com/openats/openats/internal/api/user"
	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/notify"
	"github.com/openats/openats/internal/observability/metrics"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Pool    *pgxpool.Pool
	Metrics *metrics.Metrics
	Hub     *notify.Hub

	TokenService *auth.TokenService

	AuthHandler        *auth.Handler
	UserHandler        *user.Handler
	JobHandler         *job.Handler
	CandidateHandler   *candidate.Handler
	ApplicationHandler *application.Handler
	InterviewHandler   *interview.Handler
	TaskHandler        *task.Handler
	ReportHandler      *report.Handler
	PublicHandler      *public.Handler
	WSHandler          *notify.Handler
}

// NewContainer initializes and returns a new dependency container.
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	connectionURL, err := database.ConnectionURL(cfg)
	if err != nil {
		logger.Error("Failed to build database connection URL", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(connectionURL, cfg.DB.MaxConns, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	m := metrics.New()
	store := document.NewStore(pool, logger, m)
	hub := notify.NewHub(logger)
	tokens := auth.NewTokenService(cfg.JWT)

	// Repositories
	userRepo := user.NewRepository(store)
	jobRepo := job.NewRepository(store)
	candidateRepo := candidate.NewRepository(store)
	applicationRepo := application.NewRepository(store)
	interviewRepo := interview.NewRepository(store)
	taskRepo := task.NewRepository(store)

	// Services
	authService := auth.NewService(userRepo, tokens, logger)
	userService := user.NewService(userRepo, tokens, logger)
	jobService := job.NewService(jobRepo, logger)
	applicationService := application.NewService(applicationRepo, jobRepo, candidateRepo, hub, logger)
	candidateService := candidate.NewService(candidateRepo, applicationRepo, logger)
	interviewService := interview.NewService(interviewRepo, applicationRepo, hub, logger)
	taskService := task.NewService(taskRepo, hub, logger)
	reportService := report.NewService(jobRepo, candidateRepo, applicationRepo, interviewRepo, logger)
	publicService := public.NewService(jobRepo, candidateRepo, applicationRepo, hub, logger)

	return &Container{
		Config:       cfg,
		Logger:       logger,
		Pool:         pool,
		Metrics:      m,
		Hub:          hub,
		TokenService: tokens,

		AuthHandler:        auth.NewHandler(authService, logger),
		UserHandler:        user.NewHandler(userService, logger),
		JobHandler:         job.NewHandler(jobService, logger),
		CandidateHandler:   candidate.NewHandler(candidateService, logger),
		ApplicationHandler: application.NewHandler(applicationService, logger),
		InterviewHandler:   interview.NewHandler(interviewService, logger),
		TaskHandler:        task.NewHandler(taskService, logger),
		ReportHandler:      report.NewHandler(reportService, logger),
		PublicHandler:      public.NewHandler(publicService, logger),
		WSHandler:          notify.NewHandler(hub, tokens, m, logger),
	}, nil
}

// Close releases pooled resources.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
