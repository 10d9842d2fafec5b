package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
	"github.com/openats/openats/internal/notify"
)

func validStatus(s models.ApplicationStatus) bool {
	switch s {
	case models.ApplicationNew, models.ApplicationScreening, models.ApplicationPhone,
		models.ApplicationTechnical, models.ApplicationOnsite, models.ApplicationOffer,
		models.ApplicationHired, models.ApplicationRejected, models.ApplicationWithdrawn:
		return true
	}
	return false
}

// JobReader is the slice of the job service the application flows need.
type JobReader interface {
	FindByID(ctx context.Context, id string) (*models.Job, error)
}

// CandidateReader resolves candidate existence on application creation.
type CandidateReader interface {
	FindByID(ctx context.Context, id string) (*models.Candidate, error)
}

type CreateRequest struct {
	JobID       string `json:"jobId"`
	CandidateID string `json:"candidateId"`
	Source      string `json:"source,omitempty"`
	ResumeURL   string `json:"resumeUrl,omitempty"`
	CoverLetter string `json:"coverLetter,omitempty"`
}

// StatusRequest carries a status transition, a stage transition, or both in
// one call.
type StatusRequest struct {
	Status  models.ApplicationStatus `json:"status,omitempty"`
	StageID string                   `json:"stageId,omitempty"`
}

type NoteRequest struct {
	Content string `json:"content"`
}

type Service struct {
	repo       *Repository
	jobs       JobReader
	candidates CandidateReader
	notifier   notify.Broadcaster
	logger     *slog.Logger
}

func NewService(repo *Repository, jobs JobReader, candidates CandidateReader, notifier notify.Broadcaster, logger *slog.Logger) *Service {
	return &Service{repo: repo, jobs: jobs, candidates: candidates, notifier: notifier, logger: logger}
}

// eventPayload is the emit body for application events: ids and the current
// state, never the stored document.
func eventPayload(a *models.Application) map[string]any {
	return map[string]any{
		"applicationId":  a.ID,
		"jobId":          a.JobID,
		"candidateId":    a.CandidateID,
		"status":         a.Status,
		"currentStageId": a.CurrentStageID,
	}
}

func (s *Service) List(ctx context.Context, f models.ApplicationFilters) ([]models.Application, int, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Application, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, fmt.Errorf("application %q: %w", id, api.ErrNotFound)
	}
	return a, nil
}

// Create links a candidate to an open job. The application starts in the
// "new" status at the first stage of the job's pipeline, with one activity
// recording the submission. A candidate applies to a job at most once.
func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (*models.Application, error) {
	if req.JobID == "" || req.CandidateID == "" {
		return nil, fmt.Errorf("%w: jobId and candidateId are required", api.ErrValidation)
	}

	job, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job %q: %w", req.JobID, api.ErrNotFound)
	}

	cand, err := s.candidates.FindByID(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		return nil, fmt.Errorf("candidate %q: %w", req.CandidateID, api.ErrNotFound)
	}

	existing, err := s.repo.FindByJobAndCandidate(ctx, req.JobID, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: candidate has already applied to this job", api.ErrValidation)
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}
	firstStage := ""
	if len(job.Pipeline) > 0 {
		firstStage = job.Pipeline[0].ID
	}

	now := models.NowISO()
	app := models.Application{
		ID:             models.NewID("app"),
		JobID:          req.JobID,
		CandidateID:    req.CandidateID,
		Status:         models.ApplicationNew,
		CurrentStageID: firstStage,
		AppliedAt:      now,
		Source:         source,
		Notes:          []models.ApplicationNote{},
		Activities: []models.Activity{{
			ID:          models.NewID("act"),
			Type:        "application_created",
			UserID:      actorID,
			Description: "Application created",
			CreatedAt:   now,
		}},
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, app)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Application created",
		slog.String("application_id", created.ID),
		slog.String("job_id", created.JobID),
		slog.String("candidate_id", created.CandidateID),
	)
	s.notifier.ToRoom("job:"+created.JobID, notify.EventApplicationUpdated, eventPayload(&created))
	return &created, nil
}

// Update merges a partial onto the application. Status, stage, notes and the
// activity log have dedicated paths and are not writable here.
func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.Application, error) {
	for _, k := range []string{"id", "jobId", "candidateId", "status", "currentStageId",
		"notes", "activities", "trackingToken", "appliedAt", "createdAt"} {
		delete(partial, k)
	}
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}
	partial["updatedAt"] = models.NowISO()

	updated, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, err
	}
	s.notifier.ToRoom("job:"+updated.JobID, notify.EventApplicationUpdated, eventPayload(updated))
	return updated, nil
}

// UpdateStatus moves the application to a new status, a new pipeline stage,
// or both, in one read-modify-write. Exactly one activity records the
// transition. A target stage must belong to the job's pipeline when the job
// still exists; an application whose job has been deleted accepts any stage
// id.
func (s *Service) UpdateStatus(ctx context.Context, id, actorID string, req StatusRequest) (*models.Application, error) {
	if req.Status == "" && req.StageID == "" {
		return nil, fmt.Errorf("%w: status or stageId is required", api.ErrValidation)
	}
	if req.Status != "" && !validStatus(req.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", api.ErrValidation, req.Status)
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus := app.Status
	if req.Status != "" {
		newStatus = req.Status
	}
	newStage := app.CurrentStageID
	if req.StageID != "" {
		newStage = req.StageID
	}
	if newStatus == app.Status && newStage == app.CurrentStageID {
		return app, nil
	}

	fromName, toName := app.CurrentStageID, newStage
	if req.StageID != "" {
		job, err := s.jobs.FindByID(ctx, app.JobID)
		if err != nil {
			return nil, err
		}
		if job != nil {
			found := false
			for _, stage := range job.Pipeline {
				if stage.ID == req.StageID {
					toName = stage.Name
					found = true
				}
				if stage.ID == app.CurrentStageID {
					fromName = stage.Name
				}
			}
			if !found {
				return nil, fmt.Errorf("%w: stage %q is not part of the job pipeline", api.ErrValidation, req.StageID)
			}
		}
	}

	description := fmt.Sprintf("Status changed from %s to %s", app.Status, newStatus)
	if newStage != app.CurrentStageID {
		description = fmt.Sprintf("Moved from %s to %s", fromName, toName)
	}

	now := models.NowISO()
	activities := append(app.Activities, models.Activity{
		ID:          models.NewID("act"),
		Type:        "status_changed",
		UserID:      actorID,
		Description: description,
		Metadata: map[string]any{
			"oldStatus": string(app.Status),
			"newStatus": string(newStatus),
			"oldStage":  app.CurrentStageID,
			"newStage":  newStage,
		},
		CreatedAt: now,
	})

	updated, err := s.repo.Update(ctx, id, map[string]any{
		"status":         string(newStatus),
		"currentStageId": newStage,
		"activities":     activities,
		"updatedAt":      now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Application status changed",
		slog.String("application_id", id),
		slog.String("from", string(app.Status)),
		slog.String("to", string(newStatus)),
		slog.String("stage", newStage),
	)
	s.notifier.ToRoom("job:"+updated.JobID, notify.EventStatusChanged, eventPayload(updated))
	s.notifier.ToRoom("job:"+updated.JobID, notify.EventApplicationUpdated, eventPayload(updated))
	return updated, nil
}

// AddNote appends a note and its audit activity.
func (s *Service) AddNote(ctx context.Context, id, actorID, content string) (*models.Application, error) {
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", api.ErrValidation)
	}

	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := models.NowISO()
	notes := append(app.Notes, models.ApplicationNote{
		ID:        models.NewID("note"),
		UserID:    actorID,
		Content:   content,
		CreatedAt: now,
	})
	activities := append(app.Activities, models.Activity{
		ID:          models.NewID("act"),
		Type:        "note_added",
		UserID:      actorID,
		Description: "Note added",
		CreatedAt:   now,
	})

	updated, err := s.repo.Update(ctx, id, map[string]any{
		"notes":      notes,
		"activities": activities,
		"updatedAt":  now,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.ToRoom("job:"+updated.JobID, notify.EventApplicationUpdated, eventPayload(updated))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Application deleted", slog.String("application_id", id))
	return nil
}
