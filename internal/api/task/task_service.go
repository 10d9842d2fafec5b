package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
	"github.com/openats/openats/internal/notify"
)

func validStatus(s models.TaskStatus) bool {
	switch s {
	case models.TaskTodo, models.TaskInProgress, models.TaskDone, models.TaskCancelled:
		return true
	}
	return false
}

type CreateRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	AssigneeID  string               `json:"assigneeId,omitempty"`
	RelatedTo   *models.TaskRelation `json:"relatedTo,omitempty"`
	Priority    string               `json:"priority,omitempty"`
	DueDate     string               `json:"dueDate,omitempty"`
}

type Service struct {
	repo     *Repository
	notifier notify.Broadcaster
	logger   *slog.Logger
}

func NewService(repo *Repository, notifier notify.Broadcaster, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context, f models.TaskFilters) ([]models.Task, int, error) {
	return s.repo.Search(ctx, f)
}

// My returns the caller's tasks.
func (s *Service) My(ctx context.Context, userID string, f models.TaskFilters) ([]models.Task, int, error) {
	f.AssigneeID = userID
	return s.repo.Search(ctx, f)
}

// Overdue returns open tasks past their due date, optionally scoped to one
// assignee.
func (s *Service) Overdue(ctx context.Context, assigneeID string, page, limit int) ([]models.Task, int, error) {
	return s.repo.FindOverdue(ctx, assigneeID, models.NowISO(), page, limit)
}

func (s *Service) Get(ctx context.Context, id string) (*models.Task, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("task %q: %w", id, api.ErrNotFound)
	}
	return t, nil
}

// Create adds a task. An unassigned task defaults to the creator, and the
// assignee is notified through their user room.
func (s *Service) Create(ctx context.Context, actorID string, req CreateRequest) (*models.Task, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", api.ErrValidation)
	}

	assignee := req.AssigneeID
	if assignee == "" {
		assignee = actorID
	}
	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}

	now := models.NowISO()
	task := models.Task{
		ID:          models.NewID("task"),
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  assignee,
		RelatedTo:   req.RelatedTo,
		Priority:    priority,
		Status:      models.TaskTodo,
		DueDate:     req.DueDate,
		CreatedBy:   actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Task created",
		slog.String("task_id", created.ID),
		slog.String("assignee_id", created.AssigneeID),
	)
	if created.AssigneeID != actorID {
		s.notifier.ToRoom("user:"+created.AssigneeID, notify.EventNotification, map[string]any{
			"type":       "task_assigned",
			"taskId":     created.ID,
			"title":      created.Title,
			"priority":   created.Priority,
			"dueDate":    created.DueDate,
			"assigneeId": created.AssigneeID,
		})
	}
	return &created, nil
}

// Update merges the partial. Moving a task into the done status stamps
// completedAt unless the caller supplied their own value.
func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.Task, error) {
	delete(partial, "id")
	delete(partial, "createdBy")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}

	if raw, ok := partial["status"]; ok {
		status := models.TaskStatus(fmt.Sprint(raw))
		if !validStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", api.ErrValidation, status)
		}
		if status == models.TaskDone {
			if v, supplied := partial["completedAt"]; !supplied || v == "" {
				partial["completedAt"] = models.NowISO()
			}
		}
	}
	partial["updatedAt"] = models.NowISO()
	return s.repo.Update(ctx, id, partial)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Task deleted", slog.String("task_id", id))
	return nil
}
