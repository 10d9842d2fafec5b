package public

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/application"
	"github.com/openats/openats/internal/api/candidate"
	"github.com/openats/openats/internal/api/job"
	"github.com/openats/openats/internal/document"
)

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

func newTestService(t *testing.T) (*Service, pgxmock.PgxPoolIface, *recordingBroadcaster) {
	t.Helper()
	mockPool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := document.NewStore(mockPool, logger, nil)
	notifier := &recordingBroadcaster{}
	return NewService(
		job.NewRepository(store),
		candidate.NewRepository(store),
		application.NewRepository(store),
		notifier,
		logger,
	), mockPool, notifier
}

const openJob = `{` +
	`"createdAt":"2026-08-01T10:00:00Z",` +
	`"department":"Engineering",` +
	`"description":"Build things",` +
	`"id":"job_1",` +
	`"pipeline":[{"id":"stage_applied","name":"Applied","order":1},{"id":"stage_offer","name":"Offer","order":2}],` +
	`"recruiterId":"user_1",` +
	`"salaryMax":120000,` +
	`"status":"open",` +
	`"title":"Backend Engineer"}`

const closedJob = `{"id":"job_2","status":"closed","title":"Old Role"}`

const existingCandidate = `{"email":"ada@example.com","firstName":"Ada","id":"cand_1","lastName":"Lovelace"}`

func TestOpenJob_HidesInternalFields(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(openJob)))

	view, err := service.OpenJob(context.Background(), "job_1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", view.Title)
	assert.Equal(t, "2026-08-01T10:00:00Z", view.PostedAt)
}

func TestOpenJob_ClosedJobIsNotFound(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_2").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(closedJob)))

	_, err := service.OpenJob(context.Background(), "job_2")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestSubmit_ReusesCandidateByEmail(t *testing.T) {
	service, mockPool, notifier := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(openJob)))
	mockPool.ExpectQuery("SELECT doc FROM candidates WHERE doc->>'email' = $1 LIMIT $2 OFFSET $3").
		WithArgs("ada@example.com", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(existingCandidate)))
	mockPool.ExpectQuery("SELECT doc FROM applications WHERE doc->>'jobId' = $1 AND doc->>'candidateId' = $2 LIMIT $3 OFFSET $4").
		WithArgs("job_1", "cand_1", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}))
	mockPool.ExpectExec("INSERT INTO applications (id, doc) VALUES ($1, $2)").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	resp, err := service.Submit(context.Background(), SubmitRequest{
		JobID:     "job_1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ApplicationID)
	// 32 random bytes hex encoded.
	assert.Len(t, resp.TrackingToken, 64)

	// The room emit carries ids and state only; the tracking token stays
	// between the service and the applicant.
	require.Len(t, notifier.events, 1)
	assert.Equal(t, "application_updated", notifier.events[0])
	assert.Equal(t, "job:job_1", notifier.rooms[0])
	payload, ok := notifier.data[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, resp.ApplicationID, payload["applicationId"])
	assert.NotContains(t, payload, "trackingToken")
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), resp.TrackingToken)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSubmit_DuplicateApplicationRejected(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(openJob)))
	mockPool.ExpectQuery("SELECT doc FROM candidates WHERE doc->>'email' = $1 LIMIT $2 OFFSET $3").
		WithArgs("ada@example.com", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(existingCandidate)))
	mockPool.ExpectQuery("SELECT doc FROM applications WHERE doc->>'jobId' = $1 AND doc->>'candidateId' = $2 LIMIT $3 OFFSET $4").
		WithArgs("job_1", "cand_1", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"candidateId":"cand_1","id":"app_1","jobId":"job_1"}`)))

	_, err := service.Submit(context.Background(), SubmitRequest{
		JobID:     "job_1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestSubmit_ClosedJobRejected(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_2").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(closedJob)))

	_, err := service.Submit(context.Background(), SubmitRequest{
		JobID:     "job_2",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestTrack_ReturnsReducedViewWithStageName(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	storedApp := `{` +
		`"activities":[` +
		`{"createdAt":"2026-08-01T10:00:00Z","description":"Application submitted","id":"act_1","type":"application_submitted"},` +
		`{"createdAt":"2026-08-03T10:00:00Z","description":"Note added","id":"act_2","type":"note_added","userId":"user_1"},` +
		`{"createdAt":"2026-08-05T10:00:00Z","description":"Status changed from new to screening","id":"act_3","type":"status_changed","userId":"user_1"}` +
		`],` +
		`"appliedAt":"2026-08-01T10:00:00Z",` +
		`"candidateId":"cand_1",` +
		`"currentStageId":"stage_offer",` +
		`"id":"app_1",` +
		`"jobId":"job_1",` +
		`"status":"screening",` +
		`"trackingToken":"tok",` +
		`"updatedAt":"2026-08-05T10:00:00Z"}`

	mockPool.ExpectQuery("SELECT doc FROM applications WHERE doc->>'trackingToken' = $1 LIMIT $2 OFFSET $3").
		WithArgs("tok", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(storedApp)))
	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(openJob)))
	mockPool.ExpectQuery("SELECT doc FROM candidates WHERE id = $1").
		WithArgs("cand_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(existingCandidate)))

	view, err := service.Track(context.Background(), "tok")
	require.NoError(t, err)

	require.NotNil(t, view.Job)
	assert.Equal(t, "Backend Engineer", view.Job.Title)
	assert.Equal(t, "Engineering", view.Job.Department)
	require.NotNil(t, view.Candidate)
	assert.Equal(t, "ada@example.com", view.Candidate.Email)
	assert.Equal(t, "screening", view.Status)
	// currentStage is the raw stage id, as stored on the application.
	assert.Equal(t, "stage_offer", view.Stage)
	// Internal note activity is filtered out of the public history.
	require.Len(t, view.History, 2)
	assert.Equal(t, "Application submitted", view.History[0].Action)
	assert.Equal(t, "2026-08-01T10:00:00Z", view.History[0].Timestamp)
	assert.Equal(t, "Status changed from new to screening", view.History[1].Action)
}

func TestTrack_StageIDWithoutPipelineNames(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	storedApp := `{` +
		`"activities":[{"createdAt":"2026-08-01T10:00:00Z","description":"Application submitted","id":"act_1","type":"application_submitted"}],` +
		`"appliedAt":"2026-08-01T10:00:00Z",` +
		`"candidateId":"cand_1",` +
		`"currentStageId":"new",` +
		`"id":"app_1",` +
		`"jobId":"job_1",` +
		`"status":"new",` +
		`"trackingToken":"tok",` +
		`"updatedAt":"2026-08-01T10:00:00Z"}`
	namelessJob := `{"id":"job_1","pipeline":[{"id":"new","order":1},{"id":"hired","order":7}],"status":"open","title":"Backend Engineer"}`

	mockPool.ExpectQuery("SELECT doc FROM applications WHERE doc->>'trackingToken' = $1 LIMIT $2 OFFSET $3").
		WithArgs("tok", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(storedApp)))
	mockPool.ExpectQuery("SELECT doc FROM jobs WHERE id = $1").
		WithArgs("job_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(namelessJob)))
	mockPool.ExpectQuery("SELECT doc FROM candidates WHERE id = $1").
		WithArgs("cand_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).AddRow([]byte(existingCandidate)))

	view, err := service.Track(context.Background(), "tok")
	require.NoError(t, err)

	assert.Equal(t, "new", view.Stage)
}

func TestTrack_UnknownTokenIsNotFound(t *testing.T) {
	service, mockPool, _ := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM applications WHERE doc->>'trackingToken' = $1 LIMIT $2 OFFSET $3").
		WithArgs("bogus", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}))

	_, err := service.Track(context.Background(), "bogus")
	assert.ErrorIs(t, err, api.ErrNotFound)
}
