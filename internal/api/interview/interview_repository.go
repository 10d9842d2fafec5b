// Package interview implements interview scheduling: CRUD over the
// interviews collection, per-interviewer agendas, and structured feedback
// collection.
package interview

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

type Repository struct {
	docs *document.Repository[models.Interview]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.Interview](store, document.Interviews)}
}

func (r *Repository) Create(ctx context.Context, i models.Interview) (models.Interview, error) {
	return r.docs.Create(ctx, i.ID, i)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Interview, error) {
	return r.docs.FindByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.Interview, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.InterviewFilters) ([]models.Interview, int, error) {
	filter := document.NewFilter()
	if f.JobID != "" {
		filter.Eq("jobId", f.JobID)
	}
	if f.CandidateID != "" {
		filter.Eq("candidateId", f.CandidateID)
	}
	if f.ApplicationID != "" {
		filter.Eq("applicationId", f.ApplicationID)
	}
	if f.Status != "" {
		filter.Eq("status", string(f.Status))
	}
	if f.InterviewerID != "" {
		filter.AnyIn("interviewers", []string{f.InterviewerID})
	}
	filter.OrderBy("scheduledDate", document.Ascending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}

func (r *Repository) CountByStatus(ctx context.Context, status models.InterviewStatus) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("status", string(status)))
}

// FindUpcomingFor returns the interviewer's scheduled interviews from the
// given instant onward.
func (r *Repository) FindUpcomingFor(ctx context.Context, interviewerID, from string, page, limit int) ([]models.Interview, int, error) {
	filter := document.NewFilter().
		AnyIn("interviewers", []string{interviewerID}).
		Eq("status", string(models.InterviewScheduled)).
		Gte("scheduledDate", from).
		OrderBy("scheduledDate", document.Ascending).
		Paginate(page, limit)
	return r.docs.Search(ctx, filter)
}
