// Package candidate implements the candidate directory: CRUD, skill and
// source filtering, and dedup-by-email lookup shared with the public intake
// surface.
package candidate

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

type Repository struct {
	docs *document.Repository[models.Candidate]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.Candidate](store, document.Candidates)}
}

func (r *Repository) Create(ctx context.Context, c models.Candidate) (models.Candidate, error) {
	return r.docs.Create(ctx, c.ID, c)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Candidate, error) {
	return r.docs.FindByID(ctx, id)
}

// FindByEmail returns nil when no candidate carries the address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Candidate, error) {
	return r.docs.First(ctx, document.NewFilter().Eq("email", email))
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.Candidate, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.CandidateFilters) ([]models.Candidate, int, error) {
	filter := document.NewFilter()
	if len(f.Skills) > 0 {
		filter.AnyIn("skills", f.Skills)
	}
	if f.Source != "" {
		filter.Eq("source", f.Source)
	}
	if f.ExperienceMin > 0 {
		filter.GteInt("experienceYears", f.ExperienceMin)
	}
	if f.Search != "" {
		filter.ContainsAny([]string{"firstName", "lastName", "email", "currentTitle"}, f.Search)
	}
	filter.OrderBy("createdAt", document.Descending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}

func (r *Repository) CountAll(ctx context.Context) (int, error) {
	return r.docs.CountAll(ctx)
}

// CountBySource supports the source-effectiveness report.
func (r *Repository) CountBySource(ctx context.Context, source string) (int, error) {
	return r.docs.Count(ctx, document.NewFilter().Eq("source", source))
}
