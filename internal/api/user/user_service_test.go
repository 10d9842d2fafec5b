package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openats/openats/config"
	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/auth"
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
	tokens := auth.NewTokenService(config.JWTConfig{SecretKey: "s", RefreshSecretKey: "r"})
	return NewService(NewRepository(store), tokens, logger), mockPool
}

func TestDelete_SelfDeletionRejected(t *testing.T) {
	service, _ := newTestService(t)

	err := service.Delete(context.Background(), "user_1", "user_1")
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestDelete_OtherUser(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectExec("DELETE FROM users WHERE id = $1").
		WithArgs("user_2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := service.Delete(context.Background(), "user_1", "user_2")
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestGet_StripsPasswordHash(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM users WHERE id = $1").
		WithArgs("user_1").
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"email":"jane@example.com","id":"user_1","isActive":true,"password":"$2a$10$hash","role":"recruiter"}`)))

	profile, err := service.Get(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, models.RoleRecruiter, profile.Role)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	service, mockPool := newTestService(t)

	mockPool.ExpectQuery("SELECT doc FROM users WHERE doc->>'email' = $1 LIMIT $2 OFFSET $3").
		WithArgs("jane@example.com", 1, 0).
		WillReturnRows(pgxmock.NewRows([]string{"doc"}).
			AddRow([]byte(`{"email":"jane@example.com","id":"user_1"}`)))

	_, err := service.Create(context.Background(), CreateRequest{
		Email:     "jane@example.com",
		Password:  "pass1234",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      models.RoleRecruiter,
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestUpdate_CredentialFieldsNotWritable(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Update(context.Background(), "user_1", map[string]any{
		"email":    "new@example.com",
		"password": "plaintext",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestUpdate_UnknownRole(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Update(context.Background(), "user_1", map[string]any{"role": "owner"})
	assert.ErrorIs(t, err, api.ErrValidation)
}
