// Package task implements recruiter to-do tracking: tasks assigned to team
// members, optionally linked to a job, candidate or application.
package task

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

type Repository struct {
	docs *document.Repository[models.Task]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.Task](store, document.Tasks)}
}

func (r *Repository) Create(ctx context.Context, t models.Task) (models.Task, error) {
	return r.docs.Create(ctx, t.ID, t)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	return r.docs.FindByID(ctx, id)
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.Task, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.TaskFilters) ([]models.Task, int, error) {
	filter := document.NewFilter()
	if f.AssigneeID != "" {
		filter.Eq("assigneeId", f.AssigneeID)
	}
	if f.Status != "" {
		filter.Eq("status", string(f.Status))
	}
	if f.Priority != "" {
		filter.Eq("priority", f.Priority)
	}
	filter.OrderBy("createdAt", document.Descending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}

// FindOverdue returns open tasks whose due date has passed. Tasks without a
// due date never show up here.
func (r *Repository) FindOverdue(ctx context.Context, assigneeID, now string, page, limit int) ([]models.Task, int, error) {
	filter := document.NewFilter().
		Lte("dueDate", now).
		Ne("status", string(models.TaskDone)).
		Ne("status", string(models.TaskCancelled))
	if assigneeID != "" {
		filter.Eq("assigneeId", assigneeID)
	}
	filter.OrderBy("dueDate", document.Ascending)
	filter.Paginate(page, limit)
	return r.docs.Search(ctx, filter)
}
