// Package job implements job requisition management: CRUD over the jobs
// collection, filtered search, and the per-job hiring pipeline definition.
package job

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

type Repository struct {
	docs *document.Repository[models.Job]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.Job](store, document.Jobs)}
}

func (r *Repository) Create(ctx context.Context, j models.Job) (models.Job, error) {
	return r.docs.Create(ctx, j.ID, j)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Job, error) {
	return r.docs.FindByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.Job, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.JobFilters) ([]models.Job, int, error) {
	filter := document.NewFilter()
	if f.Status != "" {
		filter.Eq("status", string(f.Status))
	}
	if f.Type != "" {
		filter.Eq("type", f.Type)
	}
	if f.Department != "" {
		filter.Eq("department", f.Department)
	}
	if f.Location != "" {
		filter.Contains("location", f.Location)
	}
	if f.ExperienceLevel != "" {
		filter.Eq("experienceLevel", f.ExperienceLevel)
	}
	if f.RecruiterID != "" {
		filter.Eq("recruiterId", f.RecruiterID)
	}
	if f.Search != "" {
		filter.ContainsAny([]string{"title", "description", "department"}, f.Search)
	}
	filter.OrderBy("createdAt", document.Descending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}

// FindOpen returns the page of open jobs for the public surface.
func (r *Repository) FindOpen(ctx context.Context, page, limit int) ([]models.Job, int, error) {
	filter := document.NewFilter().
		Eq("status", string(models.JobOpen)).
		OrderBy("createdAt", document.Descending).
		Paginate(page, limit)
	return r.docs.Search(ctx, filter)
}

// CountByStatus supports the reporting surface.
func (r *Repository) CountByStatus(ctx context.Context, status models.JobStatus) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("status", string(status)))
}
