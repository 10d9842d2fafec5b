// Package application implements the application pipeline: the link between
// a candidate and a job, its status and stage transitions, notes, and the
// append-only activity log.
package application

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

type Repository struct {
	docs *document.Repository[models.Application]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.Application](store, document.Applications)}
}

func (r *Repository) Create(ctx context.Context, a models.Application) (models.Application, error) {
	return r.docs.Create(ctx, a.ID, a)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	return r.docs.FindByID(ctx, id)
}

// FindByToken resolves the public tracking token. Returns nil when the token
// is unknown.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.Application, error) {
	return r.docs.First(ctx, document.NewFilter().Eq("trackingToken", token))
}

// FindByJobAndCandidate returns an existing application for the pair, or nil.
func (r *Repository) FindByJobAndCandidate(ctx context.Context, jobID, candidateID string) (*models.Application, error) {
	return r.docs.First(ctx, document.NewFilter().Eq("jobId", jobID).Eq("candidateId", candidateID))
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.Application, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.ApplicationFilters) ([]models.Application, int, error) {
	filter := document.NewFilter()
	if f.JobID != "" {
		filter.Eq("jobId", f.JobID)
	}
	if f.CandidateID != "" {
		filter.Eq("candidateId", f.CandidateID)
	}
	if f.Status != "" {
		filter.Eq("status", string(f.Status))
	}
	if f.Source != "" {
		filter.Eq("source", f.Source)
	}
	if f.DateFrom != "" {
		filter.Gte("appliedAt", f.DateFrom)
	}
	if f.DateTo != "" {
		filter.Lte("appliedAt", f.DateTo)
	}
	filter.OrderBy("appliedAt", document.Descending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}

func (r *Repository) CountAll(ctx context.Context) (int, error) {
	return r.docs.CountAll(ctx)
}

func (r *Repository) CountByStatus(ctx context.Context, status models.ApplicationStatus) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("status", string(status)))
}

func (r *Repository) CountByJob(ctx context.Context, jobID string) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("jobId", jobID))
}

func (r *Repository) CountByJobAndStatus(ctx context.Context, jobID string, status models.ApplicationStatus) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().
		Eq("jobId", jobID).
		Eq("status", string(status)))
}

func (r *Repository) CountBySource(ctx context.Context, source string) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("source", source))
}

// HiredBySource counts hired applications attributed to one source.
func (r *Repository) HiredBySource(ctx context.Context, source string) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().
		Eq("source", source).
		Eq("status", string(models.ApplicationHired)))
}
