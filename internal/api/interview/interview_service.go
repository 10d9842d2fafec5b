package interview

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
	"github.com/openats/openats/internal/notify"
)

func validStatus(s models.InterviewStatus) bool {
	switch s {
	case models.InterviewScheduled, models.InterviewCompleted,
		models.InterviewCancelled, models.InterviewNoShow:
		return true
	}
	return false
}

// ApplicationReader resolves the application an interview belongs to.
type ApplicationReader interface {
	FindByID(ctx context.Context, id string) (*models.Application, error)
}

type CreateRequest struct {
	ApplicationID string   `json:"applicationId"`
	Type          string   `json:"type"`
	ScheduledDate string   `json:"scheduledDate"`
	Duration      int      `json:"duration,omitempty"`
	Location      string   `json:"location,omitempty"`
	MeetingLink   string   `json:"meetingLink,omitempty"`
	Interviewers  []string `json:"interviewers"`
	Notes         string   `json:"notes,omitempty"`
}

type FeedbackRequest struct {
	Rating         int    `json:"rating"`
	Strengths      string `json:"strengths,omitempty"`
	Weaknesses     string `json:"weaknesses,omitempty"`
	Recommendation string `json:"recommendation"`
	Comments       string `json:"comments,omitempty"`
}

type Service struct {
	repo         *Repository
	applications ApplicationReader
	notifier     notify.Broadcaster
	logger       *slog.Logger
}

func NewService(repo *Repository, applications ApplicationReader, notifier notify.Broadcaster, logger *slog.Logger) *Service {
	return &Service{repo: repo, applications: applications, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context, f models.InterviewFilters) ([]models.Interview, int, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Interview, error) {
	i, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if i == nil {
		return nil, fmt.Errorf("interview %q: %w", id, api.ErrNotFound)
	}
	return i, nil
}

// Upcoming returns the calling interviewer's scheduled interviews.
func (s *Service) Upcoming(ctx context.Context, interviewerID string, page, limit int) ([]models.Interview, int, error) {
	return s.repo.FindUpcomingFor(ctx, interviewerID, models.NowISO(), page, limit)
}

// Create schedules an interview for an application. Job and candidate ids
// are copied off the application so interview queries never need a join.
// Every named interviewer is notified through their user room.
func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (*models.Interview, error) {
	if req.ApplicationID == "" || req.ScheduledDate == "" {
		return nil, fmt.Errorf("%w: applicationId and scheduledDate are required", api.ErrValidation)
	}
	if len(req.Interviewers) == 0 {
		return nil, fmt.Errorf("%w: at least one interviewer is required", api.ErrValidation)
	}

	app, err := s.applications.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application %q: %w", req.ApplicationID, api.ErrNotFound)
	}

	itype := req.Type
	if itype == "" {
		itype = "video"
	}
	duration := req.Duration
	if duration <= 0 {
		duration = 60
	}

	now := models.NowISO()
	interview := models.Interview{
		ID:            models.NewID("int"),
		ApplicationID: app.ID,
		JobID:         app.JobID,
		CandidateID:   app.CandidateID,
		Type:          itype,
		Status:        models.InterviewScheduled,
		ScheduledDate: req.ScheduledDate,
		Duration:      duration,
		Location:      req.Location,
		MeetingLink:   req.MeetingLink,
		Interviewers:  req.Interviewers,
		Notes:         req.Notes,
		CreatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.repo.Create(ctx, interview)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Interview scheduled",
		slog.String("interview_id", created.ID),
		slog.String("application_id", created.ApplicationID),
		slog.String("scheduled_date", created.ScheduledDate),
	)
	payload := map[string]any{
		"interviewId":   created.ID,
		"applicationId": created.ApplicationID,
		"jobId":         created.JobID,
		"candidateId":   created.CandidateID,
		"type":          created.Type,
		"scheduledDate": created.ScheduledDate,
	}
	for _, interviewerID := range created.Interviewers {
		s.notifier.ToRoom("user:"+interviewerID, notify.EventInterviewScheduled, payload)
	}
	s.notifier.ToRoom("job:"+created.JobID, notify.EventInterviewScheduled, payload)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.Interview, error) {
	for _, k := range []string{"id", "applicationId", "jobId", "candidateId",
		"feedback", "createdBy", "createdAt"} {
		delete(partial, k)
	}
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}
	if raw, ok := partial["status"]; ok {
		status, _ := raw.(string)
		if !validStatus(models.InterviewStatus(status)) {
			return nil, fmt.Errorf("%w: unknown status %q", api.ErrValidation, status)
		}
	}
	partial["updatedAt"] = models.NowISO()
	return s.repo.Update(ctx, id, partial)
}

// AddFeedback records one interviewer's structured feedback. A second
// submission from the same interviewer replaces their earlier one.
func (s *Service) AddFeedback(ctx context.Context, id, actorID string, req FeedbackRequest) (*models.Interview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", api.ErrValidation)
	}
	if req.Recommendation == "" {
		return nil, fmt.Errorf("%w: recommendation is required", api.ErrValidation)
	}

	interview, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	entry := models.InterviewFeedback{
		UserID:         actorID,
		Rating:         req.Rating,
		Strengths:      req.Strengths,
		Weaknesses:     req.Weaknesses,
		Recommendation: req.Recommendation,
		Comments:       req.Comments,
		SubmittedAt:    models.NowISO(),
	}

	feedback := make([]models.InterviewFeedback, 0, len(interview.Feedback)+1)
	for _, f := range interview.Feedback {
		if f.UserID != actorID {
			feedback = append(feedback, f)
		}
	}
	feedback = append(feedback, entry)

	return s.repo.Update(ctx, id, map[string]any{
		"feedback":  feedback,
		"updatedAt": entry.SubmittedAt,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Interview deleted", slog.String("interview_id", id))
	return nil
}
