package job

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
)

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := document.NewStore(mockPool, logger, nil)
	return NewService(NewRepository(store), logger), mockPool
}

func TestCreate_AppliesDefaults(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectExec("INSERT INTO jobs (id, doc) VALUES ($1, $2)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := service.Create(context.Background(), "user_1", CreateRequest{
		Title:       "Backend Engineer",
		Department:  "Engineering",
		Description: "Build things",
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobDraft, created.Status)
	assert.Equal(t, "user_1", created.RecruiterID)
	assert.Equal(t, 1, created.Openings)
	require.Len(t, created.Pipeline, 5)
	assert.Equal(t, "Applied", created.Pipeline[0].Name)
	assert.Equal(t, 1, created.Pipeline[0].Order)
	assert.Equal(t, "Hired", created.Pipeline[4].Name)
}

func TestCreate_KeepsExplicitPipeline(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectExec("INSERT INTO jobs (id, doc) VALUES ($1, $2)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	created, err := service.Create(context.Background(), "user_1", CreateRequest{
		Title:       "Backend Engineer",
		Department:  "Engineering",
		Description: "Build things",
		Status:      models.JobOpen,
		Pipeline: []models.PipelineStage{
			{ID: "s1", Name: "Intro", Order: 1},
			{ID: "s2", Name: "Decision", Order: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, models.JobOpen, created.Status)
	require.Len(t, created.Pipeline, 2)
	assert.Equal(t, "Intro", created.Pipeline[0].Name)
}

func TestCreate_MissingFields(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "user_1", CreateRequest{Title: "No department"})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestCreate_UnknownStatus(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Create(context.Background(), "user_1", CreateRequest{
		Title:       "Backend Engineer",
		Department:  "Engineering",
		Description: "Build things",
		Status:      "archived",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestUpdate_RecruiterNotWritable(t *testing.T) {
	service, _ := newTestService(t)

	// Stripping recruiterId leaves nothing to update.
	_, err := service.Update(context.Background(), "job_1", map[string]any{"recruiterId": "user_9"})
	assert.ErrorIs(t, err, api.ErrValidation)
}
