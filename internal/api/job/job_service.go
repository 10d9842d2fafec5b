package job

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

// defaultPipeline is applied to jobs created without an explicit pipeline.
func defaultPipeline() []models.PipelineStage {
	return []models.PipelineStage{
		{ID: "stage_applied", Name: "Applied", Order: 1, Color: "#6B7280"},
		{ID: "stage_screening", Name: "Screening", Order: 2, Color: "#3B82F6"},
		{ID: "stage_interview", Name: "Interview", Order: 3, Color: "#8B5CF6"},
		{ID: "stage_offer", Name: "Offer", Order: 4, Color: "#F59E0B"},
		{ID: "stage_hired", Name: "Hired", Order: 5, Color: "#10B981"},
	}
}

func validStatus(s models.JobStatus) bool {
	switch s {
	case models.JobDraft, models.JobOpen, models.JobClosed, models.JobOnHold:
		return true
	}
	return false
}

type CreateRequest struct {
	Title            string                 `json:"title"`
	Department       string                 `json:"department"`
	Location         string                 `json:"location"`
	Type             string                 `json:"type"`
	ExperienceLevel  string                 `json:"experienceLevel"`
	Description      string                 `json:"description"`
	Requirements     []string               `json:"requirements"`
	Responsibilities []string               `json:"responsibilities"`
	Skills           []string               `json:"skills"`
	SalaryMin        float64                `json:"salaryMin,omitempty"`
	SalaryMax        float64                `json:"salaryMax,omitempty"`
	Currency         string                 `json:"currency,omitempty"`
	Status           models.JobStatus       `json:"status,omitempty"`
	HiringManagerID  string                 `json:"hiringManagerId,omitempty"`
	Openings         int                    `json:"openings,omitempty"`
	Pipeline         []models.PipelineStage `json:"pipeline,omitempty"`
}

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, f models.JobFilters) ([]models.Job, int, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Job, error) {
	j, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, fmt.Errorf("job %q: %w", id, api.ErrNotFound)
	}
	return j, nil
}

// Create opens a requisition owned by the calling recruiter. A job created
// without a pipeline gets the default stage set.
func (s *Service) Create(ctx context.Context, recruiterID string, req CreateRequest) (*models.Job, error) {
	if req.Title == "" || req.Department == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: title, department and description are required", api.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = models.JobDraft
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", api.ErrValidation, status)
	}

	pipeline := req.Pipeline
	if len(pipeline) == 0 {
		pipeline = defaultPipeline()
	}
	openings := req.Openings
	if openings < 1 {
		openings = 1
	}

	now := models.NowISO()
	job := models.Job{
		ID:               models.NewID("job"),
		Title:            req.Title,
		Department:       req.Department,
		Location:         req.Location,
		Type:             req.Type,
		ExperienceLevel:  req.ExperienceLevel,
		Description:      req.Description,
		Requirements:     orEmpty(req.Requirements),
		Responsibilities: orEmpty(req.Responsibilities),
		Skills:           orEmpty(req.Skills),
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		Currency:         req.Currency,
		Status:           status,
		RecruiterID:      recruiterID,
		HiringManagerID:  req.HiringManagerID,
		Openings:         openings,
		Pipeline:         pipeline,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, job)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Job created",
		slog.String("job_id", created.ID),
		slog.String("title", created.Title),
		slog.String("status", string(created.Status)),
	)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.Job, error) {
	delete(partial, "id")
	delete(partial, "recruiterId")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}
	if raw, ok := partial["status"]; ok {
		status, _ := raw.(string)
		if !validStatus(models.JobStatus(status)) {
			return nil, fmt.Errorf("%w: unknown status %q", api.ErrValidation, status)
		}
	}
	partial["updatedAt"] = models.NowISO()
	return s.repo.Update(ctx, id, partial)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Job deleted", slog.String("job_id", id))
	return nil
}

// Pipeline returns the stage list for one job.
func (s *Service) Pipeline(ctx context.Context, id string) ([]models.PipelineStage, error) {
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return j.Pipeline, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
