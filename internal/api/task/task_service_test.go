package task

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
	"github.com/openats/openats/internal/notify"
)

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := document.NewStore(mockPool, logger, nil)
	return NewService(NewRepository(store), notify.NopBroadcaster{}, logger), mockPool
}

const storedTask = `{` +
	`"assigneeId":"user_1",` +
	`"createdAt":"2026-08-01T10:00:00Z",` +
	`"createdBy":"user_2",` +
	`"dueDate":"2026-08-10T10:00:00Z",` +
	`"id":"task_1",` +
	`"priority":"high",` +
	`"status":"in_progress",` +
	`"title":"Review take-home",` +
	`"updatedAt":"2026-08-01T10:00:00Z"}`

func expectTaskUpdate(mockPool pgxmock.PgxPoolIface) {
	mockPool.ExpectQuery("SELECT doc FROM tasks WHERE id = $1").
		WithArgs("task_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(storedTask)))
	mockPool.ExpectExec("UPDATE tasks SET doc = $2 WHERE id = $1").
		WithArgs("task_1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
}

func TestUpdate_DoneStampsCompletedAt(t *testing.T) {
	service, mockPool := newTestService(t)
	expectTaskUpdate(mockPool)

	updated, err := service.Update(context.Background(), "task_1", map[string]any{"status": "done"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskDone, updated.Status)
	assert.NotEmpty(t, updated.CompletedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestUpdate_DoneKeepsSuppliedCompletedAt(t *testing.T) {
	service, mockPool := newTestService(t)
	expectTaskUpdate(mockPool)

	updated, err := service.Update(context.Background(), "task_1", map[string]any{
		"status":      "done",
		"completedAt": "2026-08-20T09:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, models.TaskDone, updated.Status)
	assert.Equal(t, "2026-08-20T09:00:00Z", updated.CompletedAt)
}

func TestUpdate_ReopeningKeepsCompletedAt(t *testing.T) {
	service, mockPool := newTestService(t)

	doneTask := `{` +
		`"assigneeId":"user_1",` +
		`"completedAt":"2026-08-15T12:00:00Z",` +
		`"createdAt":"2026-08-01T10:00:00Z",` +
		`"createdBy":"user_2",` +
		`"id":"task_1",` +
		`"status":"done",` +
		`"title":"Review take-home",` +
		`"updatedAt":"2026-08-15T12:00:00Z"}`
	mockPool.ExpectQuery("SELECT doc FROM tasks WHERE id = $1").
		WithArgs("task_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(doneTask)))
	mockPool.ExpectExec("UPDATE tasks SET doc = $2 WHERE id = $1").
		WithArgs("task_1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := service.Update(context.Background(), "task_1", map[string]any{"status": "todo"})
	require.NoError(t, err)

	assert.Equal(t, models.TaskTodo, updated.Status)
	assert.Equal(t, "2026-08-15T12:00:00Z", updated.CompletedAt)
}

func TestUpdate_UnknownStatus(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Update(context.Background(), "task_1", map[string]any{"status": "abandoned"})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestCreate_DefaultsAssigneeToCreator(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectExec("INSERT INTO tasks (id, doc) VALUES ($1, $2)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := service.Create(context.Background(), "user_9", CreateRequest{Title: "Call references"})
	require.NoError(t, err)

	assert.Equal(t, "user_9", created.AssigneeID)
	assert.Equal(t, "user_9", created.CreatedBy)
	assert.Equal(t, models.TaskTodo, created.Status)
	assert.Equal(t, "medium", created.Priority)
}

func TestCreate_NotifiesAssigneeWithTaskSummary(t *testing.T) {
	mockPool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := document.NewStore(mockPool, logger, nil)
	notifier := &recordingBroadcaster{}
	service := NewService(NewRepository(store), notifier, logger)

	mockPool.ExpectExec("INSERT INTO tasks (id, doc) VALUES ($1, $2)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := service.Create(context.Background(), "user_9", CreateRequest{
		Title:      "Call references",
		AssigneeID: "user_1",
	})
	require.NoError(t, err)

	require.Len(t, notifier.events, 1)
	assert.Equal(t, "notification", notifier.events[0])
	assert.Equal(t, "user:user_1", notifier.rooms[0])

	// Events carry ids and a summary, never the stored document.
	payload, ok := notifier.data[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "task_assigned", payload["type"])
	assert.Equal(t, created.ID, payload["taskId"])
	assert.NotContains(t, payload, "task")
	assert.NotContains(t, payload, "createdBy")
}

type recordingBroadcaster struct {
	rooms  []string
	events []string
	data   []any
}

func (r *recordingBroadcaster) ToRoom(room, event string, data any) {
	r.rooms = append(r.rooms, room)
	r.events = append(r.events, event)
	r.data = append(r.data, data)
}

func (r *recordingBroadcaster) ToAll(event string, data any) {
	r.events = append(r.events, event)
	r.data = append(r.data, data)
}

func TestCreate_TitleRequired(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "user_9", CreateRequest{})
	assert.ErrorIs(t, err, api.ErrValidation)
}
