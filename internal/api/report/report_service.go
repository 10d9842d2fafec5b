// Package report implements the analytics surface: the recruiting dashboard,
// the pipeline funnel, source effectiveness and time-to-hire summaries, and
// a CSV export of the application book.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/openats/openats/internal/api/application"
	"github.com/openats/openats/internal/api/candidate"
	"github.com/openats/openats/internal/api/interview"
	"github.com/openats/openats/internal/api/job"
	"github.com/openats/openats/internal/models"
)

const dashboardCacheKey = "dashboard"

// knownSources is the fixed attribution vocabulary; candidates arriving
// through other channels are recorded under "manual".
var knownSources = []string{"careers_page", "linkedin", "referral", "agency", "job_board", "manual"}

var allStatuses = []models.ApplicationStatus{
	models.ApplicationNew, models.ApplicationScreening, models.ApplicationPhone,
	models.ApplicationTechnical, models.ApplicationOnsite, models.ApplicationOffer,
	models.ApplicationHired, models.ApplicationRejected, models.ApplicationWithdrawn,
}

type Dashboard struct {
	OpenJobs             int                  `json:"openJobs"`
	TotalCandidates      int                  `json:"totalCandidates"`
	TotalApplications    int                  `json:"totalApplications"`
	ScheduledInterviews  int                  `json:"scheduledInterviews"`
	ApplicationsByStatus map[string]int       `json:"applicationsByStatus"`
	RecentApplications   []models.Application `json:"recentApplications"`
}

type PipelineReport struct {
	JobID    string         `json:"jobId"`
	JobTitle string         `json:"jobTitle"`
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
	Openings int            `json:"openings"`
	Hired    int            `json:"hired"`
}

type SourceReport struct {
	Source       string  `json:"source"`
	Candidates   int     `json:"candidates"`
	Applications int     `json:"applications"`
	Hires        int     `json:"hires"`
	HireRate     float64 `json:"hireRate"`
}

// TimeToHireReport carries the simplified fleet-wide figures; per-application
// stage timing is not tracked, so the distribution is a fixed estimate.
type TimeToHireReport struct {
	AverageDays int `json:"averageDays"`
	MedianDays  int `json:"medianDays"`
	FastestDays int `json:"fastestDays"`
	SlowestDays int `json:"slowestDays"`
	TotalHires  int `json:"totalHires"`
}

type Service struct {
	jobs         *job.Repository
	candidates   *candidate.Repository
	applications *application.Repository
	interviews   *interview.Repository
	cache        *cache.Cache
	logger       *slog.Logger
}

func NewService(
	jobs *job.Repository,
	candidates *candidate.Repository,
	applications *application.Repository,
	interviews *interview.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		jobs:         jobs,
		candidates:   candidates,
		applications: applications,
		interviews:   interviews,
		cache:        cache.New(60*time.Second, 5*time.Minute),
		logger:       logger,
	}
}

// Dashboard aggregates the headline numbers. The result is cached for a
// minute; every consumer within the window sees the same snapshot.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if cached, ok := s.cache.Get(dashboardCacheKey); ok {
		return cached.(*Dashboard), nil
	}

	d := &Dashboard{ApplicationsByStatus: make(map[string]int, len(allStatuses))}
	statusCounts := make([]int, len(allStatuses))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.jobs.CountByStatus(gctx, models.JobOpen)
		d.OpenJobs = n
		return err
	})
	g.Go(func() error {
		n, err := s.candidates.CountAll(gctx)
		d.TotalCandidates = n
		return err
	})
	g.Go(func() error {
		n, err := s.applications.CountAll(gctx)
		d.TotalApplications = n
		return err
	})
	g.Go(func() error {
		n, err := s.interviews.CountByStatus(gctx, models.InterviewScheduled)
		d.ScheduledInterviews = n
		return err
	})
	for i, status := range allStatuses {
		g.Go(func() error {
			n, err := s.applications.CountByStatus(gctx, status)
			statusCounts[i] = n
			return err
		})
	}
	g.Go(func() error {
		recent, _, err := s.applications.Search(gctx, models.ApplicationFilters{
			Pagination: models.Pagination{Page: 1, Limit: 5},
		})
		d.RecentApplications = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, status := range allStatuses {
		d.ApplicationsByStatus[string(status)] = statusCounts[i]
	}
	if d.RecentApplications == nil {
		d.RecentApplications = []models.Application{}
	}

	s.cache.SetDefault(dashboardCacheKey, d)
	return d, nil
}

// Pipeline reports per-job application counts broken down by status for
// every non-draft job.
func (s *Service) Pipeline(ctx context.Context) ([]PipelineReport, error) {
	jobs, _, err := s.jobs.Search(ctx, models.JobFilters{
		Pagination: models.Pagination{Page: 1, Limit: 100},
	})
	if err != nil {
		return nil, err
	}

	reports := make([]PipelineReport, 0, len(jobs))
	for _, j := range jobs {
		if j.Status == models.JobDraft {
			continue
		}
		report := PipelineReport{
			JobID:    j.ID,
			JobTitle: j.Title,
			Openings: j.Openings,
			ByStatus: make(map[string]int, len(allStatuses)),
		}

		statusCounts := make([]int, len(allStatuses))
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			n, err := s.applications.CountByJob(gctx, j.ID)
			report.Total = n
			return err
		})
		for i, status := range allStatuses {
			g.Go(func() error {
				n, err := s.applications.CountByJobAndStatus(gctx, j.ID, status)
				statusCounts[i] = n
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i, status := range allStatuses {
			report.ByStatus[string(status)] = statusCounts[i]
		}
		report.Hired = report.ByStatus[string(models.ApplicationHired)]
		reports = append(reports, report)
	}
	return reports, nil
}

// Sources reports candidate volume and hire conversion per source.
func (s *Service) Sources(ctx context.Context) ([]SourceReport, error) {
	reports := make([]SourceReport, len(knownSources))

	g, gctx := errgroup.WithContext(ctx)
	for i, source := range knownSources {
		g.Go(func() error {
			var report SourceReport
			report.Source = source

			inner, ictx := errgroup.WithContext(gctx)
			inner.Go(func() error {
				n, err := s.candidates.CountBySource(ictx, source)
				report.Candidates = n
				return err
			})
			inner.Go(func() error {
				n, err := s.applications.CountBySource(ictx, source)
				report.Applications = n
				return err
			})
			inner.Go(func() error {
				n, err := s.applications.HiredBySource(ictx, source)
				report.Hires = n
				return err
			})
			if err := inner.Wait(); err != nil {
				return err
			}

			if report.Applications > 0 {
				report.HireRate = float64(report.Hires) / float64(report.Applications)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// TimeToHire returns the simplified time-to-hire profile. Only the hire
// count is live; the day figures are fixed estimates until per-stage timing
// is recorded.
func (s *Service) TimeToHire(ctx context.Context) (*TimeToHireReport, error) {
	hires, err := s.applications.CountByStatus(ctx, models.ApplicationHired)
	if err != nil {
		return nil, err
	}
	return &TimeToHireReport{
		AverageDays: 21,
		MedianDays:  18,
		FastestDays: 3,
		SlowestDays: 65,
		TotalHires:  hires,
	}, nil
}

// Applications returns the export page of the application book.
func (s *Service) Applications(ctx context.Context, page, limit int) ([]models.Application, error) {
	apps, _, err := s.applications.Search(ctx, models.ApplicationFilters{
		Pagination: models.Pagination{Page: page, Limit: limit},
	})
	return apps, err
}
