package candidate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

type CreateRequest struct {
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
	Source          string   `json:"source,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// ApplicationLister is the slice of the application repository the candidate
// history view needs.
type ApplicationLister interface {
	Search(ctx context.Context, f models.ApplicationFilters) ([]models.Application, int, error)
}

type Service struct {
	repo         *Repository
	applications ApplicationLister
	logger       *slog.Logger
}

func NewService(repo *Repository, applications ApplicationLister, logger *slog.Logger) *Service {
	return &Service{repo: repo, applications: applications, logger: logger}
}

func (s *Service) List(ctx context.Context, f models.CandidateFilters) ([]models.Candidate, int, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Candidate, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("candidate %q: %w", id, api.ErrNotFound)
	}
	return c, nil
}

// Create adds a candidate to the directory. Email is the dedup key; a second
// candidate with the same address is rejected.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Candidate, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if req.FirstName == "" || req.LastName == "" || email == "" {
		return nil, fmt.Errorf("%w: firstName, lastName and email are required", api.ErrValidation)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a candidate with this email already exists", api.ErrValidation)
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	now := models.NowISO()
	candidate := models.Candidate{
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
		Source:          source,
		Tags:            orEmpty(req.Tags),
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Candidate created",
		slog.String("candidate_id", created.ID),
		slog.String("source", created.Source),
	)
	return &created, nil
}

func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.Candidate, error) {
	delete(partial, "id")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}
	if raw, ok := partial["email"]; ok {
		email := strings.TrimSpace(strings.ToLower(fmt.Sprint(raw)))
		if email == "" {
			return nil, fmt.Errorf("%w: email must not be empty", api.ErrValidation)
		}
		existing, err := s.repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("%w: a candidate with this email already exists", api.ErrValidation)
		}
		partial["email"] = email
	}
	partial["updatedAt"] = models.NowISO()
	return s.repo.Update(ctx, id, partial)
}

// Applications lists every application the candidate has filed, newest first.
func (s *Service) Applications(ctx context.Context, id string, p models.Pagination) ([]models.Application, int, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.applications.Search(ctx, models.ApplicationFilters{
		Pagination:  p,
		CandidateID: id,
	})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Candidate deleted", slog.String("candidate_id", id))
	return nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
