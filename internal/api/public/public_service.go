// Package public implements the unauthenticated intake surface: the open job
// board, direct application submission, and tracking-token status lookup.
// Responses here are deliberately reduced projections; internal fields like
// recruiter assignments, salary bands and the activity audit trail never
// cross this boundary.
package public

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/application"
	"github.com/openats/openats/internal/api/candidate"
	"github.com/openats/openats/internal/api/job"
	"github.com/openats/openats/internal/models"
	"github.com/openats/openats/internal/notify"
)

// PublicJob is the stripped job projection shown on the board.
type PublicJob struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	Type             string   `json:"type"`
	ExperienceLevel  string   `json:"experienceLevel"`
	Description      string   `json:"description"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Skills           []string `json:"skills"`
	PostedAt         string   `json:"postedAt"`
}

type SubmitRequest struct {
	JobID           string   `json:"jobId"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Location        string   `json:"location,omitempty"`
	CurrentTitle    string   `json:"currentTitle,omitempty"`
	CurrentCompany  string   `json:"currentCompany,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	LinkedinURL     string   `json:"linkedinUrl,omitempty"`
	PortfolioURL    string   `json:"portfolioUrl,omitempty"`
	ResumeURL       string   `json:"resumeUrl,omitempty"`
	CoverLetter     string   `json:"coverLetter,omitempty"`
}

type SubmitResponse struct {
	ApplicationID string `json:"applicationId"`
	TrackingToken string `json:"trackingToken"`
}

// TrackingView is everything an applicant may see about their application.
// The job or candidate block is null when the referenced document is gone.
type TrackingView struct {
	Status      string             `json:"status"`
	Job         *TrackingJob       `json:"job"`
	Candidate   *TrackingCandidate `json:"candidate"`
	Stage       string             `json:"currentStage"`
	AppliedAt   string             `json:"appliedAt"`
	LastUpdated string             `json:"lastUpdated"`
	History     []TrackingEvent    `json:"history"`
}

type TrackingJob struct {
	Title      string `json:"title"`
	Department string `json:"department"`
	Location   string `json:"location"`
}

type TrackingCandidate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type TrackingEvent struct {
	Action    string `json:"action"`
	Timestamp string `json:"timestamp"`
}

type Service struct {
	jobs         *job.Repository
	candidates   *candidate.Repository
	applications *application.Repository
	notifier     notify.Broadcaster
	logger       *slog.Logger
}

func NewService(
	jobs *job.Repository,
	candidates *candidate.Repository,
	applications *application.Repository,
	notifier notify.Broadcaster,
	logger *slog.Logger,
) *Service {
	return &Service{
		jobs:         jobs,
		candidates:   candidates,
		applications: applications,
		notifier:     notifier,
		logger:       logger,
	}
}

// OpenJobs lists the board.
func (s *Service) OpenJobs(ctx context.Context, page, limit int) ([]PublicJob, int, error) {
	jobs, total, err := s.jobs.FindOpen(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PublicJob, len(jobs))
	for i, j := range jobs {
		out[i] = projectJob(j)
	}
	return out, total, nil
}

// OpenJob returns one board entry. A draft, closed or on-hold job is not
// found here even when it exists internally.
func (s *Service) OpenJob(ctx context.Context, id string) (*PublicJob, error) {
	j, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil || j.Status != models.JobOpen {
		return nil, fmt.Errorf("job %q: %w", id, api.ErrNotFound)
	}
	p := projectJob(*j)
	return &p, nil
}

// Submit files an application against an open job. The candidate record is
// keyed by email: a returning applicant is reused, a new one is created with
// the careers-page source. The caller gets back an opaque tracking token and
// nothing else.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*SubmitResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.JobID == "" || req.FirstName == "" || req.LastName == "" || email == "" {
		return nil, fmt.Errorf("%w: jobId, firstName, lastName and email are required", api.ErrValidation)
	}

	j, err := s.jobs.FindByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if j == nil || j.Status != models.JobOpen {
		return nil, fmt.Errorf("%w: job not found or no longer accepting applications", api.ErrValidation)
	}

	cand, err := s.candidates.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if cand == nil {
		now := models.NowISO()
		created, err := s.candidates.Create(ctx, models.Candidate{
			ID:              models.NewID("cand"),
			FirstName:       req.FirstName,
			LastName:        req.LastName,
			Email:           email,
			Phone:           req.Phone,
			Location:        req.Location,
			CurrentTitle:    req.CurrentTitle,
			CurrentCompany:  req.CurrentCompany,
			ExperienceYears: req.ExperienceYears,
			Skills:          orEmpty(req.Skills),
			LinkedinURL:     req.LinkedinURL,
			PortfolioURL:    req.PortfolioURL,
			ResumeURL:       req.ResumeURL,
			Source:          "careers_page",
			Tags:            []string{},
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return nil, err
		}
		cand = &created
	}

	existing, err := s.applications.FindByJobAndCandidate(ctx, req.JobID, cand.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: you have already applied to this job", api.ErrValidation)
	}

	token, err := newTrackingToken()
	if err != nil {
		return nil, err
	}

	firstStage := ""
	if len(j.Pipeline) > 0 {
		firstStage = j.Pipeline[0].ID
	}

	now := models.NowISO()
	app, err := s.applications.Create(ctx, models.Application{
		ID:             models.NewID("app"),
		JobID:          req.JobID,
		CandidateID:    cand.ID,
		Status:         models.ApplicationNew,
		CurrentStageID: firstStage,
		AppliedAt:      now,
		Source:         "careers_page",
		Notes:          []models.ApplicationNote{},
		Activities: []models.Activity{{
			ID:          models.NewID("act"),
			Type:        "application_submitted",
			Description: "Application submitted",
			CreatedAt:   now,
		}},
		TrackingToken: token,
		ResumeURL:     req.ResumeURL,
		CoverLetter:   req.CoverLetter,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Public application received",
		slog.String("application_id", app.ID),
		slog.String("job_id", req.JobID),
	)
	// Ids and state only. The tracking token is the applicant's private
	// handle and never leaves through the channel.
	s.notifier.ToRoom("job:"+req.JobID, notify.EventApplicationUpdated, map[string]any{
		"applicationId":  app.ID,
		"jobId":          app.JobID,
		"candidateId":    app.CandidateID,
		"status":         app.Status,
		"currentStageId": app.CurrentStageID,
	})
	return &SubmitResponse{ApplicationID: app.ID, TrackingToken: token}, nil
}

// Track resolves a tracking token to the applicant-facing view. Token
// lookups are unauthenticated, so only the reduced projection leaves.
func (s *Service) Track(ctx context.Context, token string) (*TrackingView, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", api.ErrValidation)
	}

	app, err := s.applications.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("application: %w", api.ErrNotFound)
	}

	view := &TrackingView{
		Status:      string(app.Status),
		Stage:       app.CurrentStageID,
		AppliedAt:   app.AppliedAt,
		LastUpdated: app.UpdatedAt,
		History:     make([]TrackingEvent, 0, len(app.Activities)),
	}

	j, err := s.jobs.FindByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if j != nil {
		view.Job = &TrackingJob{Title: j.Title, Department: j.Department, Location: j.Location}
	}

	cand, err := s.candidates.FindByID(ctx, app.CandidateID)
	if err != nil {
		return nil, err
	}
	if cand != nil {
		view.Candidate = &TrackingCandidate{
			FirstName: cand.FirstName,
			LastName:  cand.LastName,
			Email:     cand.Email,
		}
	}

	for _, act := range app.Activities {
		switch act.Type {
		case "application_submitted", "application_created", "status_changed":
			view.History = append(view.History, TrackingEvent{
				Action:    act.Description,
				Timestamp: act.CreatedAt,
			})
		}
	}
	return view, nil
}

func projectJob(j models.Job) PublicJob {
	return PublicJob{
		ID:               j.ID,
		Title:            j.Title,
		Department:       j.Department,
		Location:         j.Location,
		Type:             j.Type,
		ExperienceLevel:  j.ExperienceLevel,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Responsibilities: j.Responsibilities,
		Skills:           j.Skills,
		PostedAt:         j.CreatedAt,
	}
}

// newTrackingToken returns 32 random bytes hex encoded.
func newTrackingToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tracking token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
