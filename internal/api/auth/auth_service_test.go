package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

// MockUserStore is a mock implementation of the UserStore interface.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(store *MockUserStore) (*Service, *TokenService) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := NewTokenService(testJWTConfig())
	return NewService(store, tokens, logger), tokens
}

func TestRegister_Success(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	store.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "jane@example.com" &&
			u.Role == models.RoleRecruiter &&
			u.IsActive &&
			u.Password != "pass1234"
	})).Return(models.User{
		ID:       "user_1",
		Email:    "jane@example.com",
		Role:     models.RoleRecruiter,
		IsActive: true,
	}, nil)

	resp, err := service.Register(context.Background(), RegisterRequest{
		Email:     "Jane@Example.com",
		Password:  "pass1234",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.Equal(t, "user_1", resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	store.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	store.On("FindByEmail", mock.Anything, "jane@example.com").
		Return(&models.User{ID: "user_1", Email: "jane@example.com"}, nil)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:     "jane@example.com",
		Password:  "pass1234",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestRegister_MissingFields(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	_, err := service.Register(context.Background(), RegisterRequest{Email: "jane@example.com"})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestRegister_UnknownRole(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	_, err := service.Register(context.Background(), RegisterRequest{
		Email:     "jane@example.com",
		Password:  "pass1234",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      "superuser",
	})
	assert.ErrorIs(t, err, api.ErrValidation)
}

func TestLogin_Success(t *testing.T) {
	store := new(MockUserStore)
	service, tokens := newTestService(store)

	hash, err := tokens.HashPassword("pass1234")
	require.NoError(t, err)

	store.On("FindByEmail", mock.Anything, "jane@example.com").Return(&models.User{
		ID:       "user_1",
		Email:    "jane@example.com",
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}, nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "user_1", resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := tokens.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := new(MockUserStore)
	service, tokens := newTestService(store)

	hash, err := tokens.HashPassword("pass1234")
	require.NoError(t, err)

	store.On("FindByEmail", mock.Anything, "jane@example.com").Return(&models.User{
		ID:       "user_1",
		Email:    "jane@example.com",
		Password: hash,
		IsActive: true,
	}, nil)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	store.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, nil)

	_, err := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestLogin_DisabledAccount(t *testing.T) {
	store := new(MockUserStore)
	service, tokens := newTestService(store)

	hash, err := tokens.HashPassword("pass1234")
	require.NoError(t, err)

	store.On("FindByEmail", mock.Anything, "jane@example.com").Return(&models.User{
		ID:       "user_1",
		Email:    "jane@example.com",
		Password: hash,
		IsActive: false,
	}, nil)

	_, err = service.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "pass1234",
	})
	assert.ErrorIs(t, err, api.ErrForbidden)
}

func TestRefresh_Success(t *testing.T) {
	store := new(MockUserStore)
	service, tokens := newTestService(store)

	refresh, err := tokens.IssueRefreshToken("user_1")
	require.NoError(t, err)

	store.On("FindByID", mock.Anything, "user_1").Return(&models.User{
		ID:       "user_1",
		Email:    "jane@example.com",
		Role:     models.RoleRecruiter,
		IsActive: true,
	}, nil)

	access, err := service.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := tokens.VerifyAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user_1", claims.UserID)
}

func TestRefresh_DisabledAccount(t *testing.T) {
	store := new(MockUserStore)
	service, tokens := newTestService(store)

	refresh, err := tokens.IssueRefreshToken("user_1")
	require.NoError(t, err)

	store.On("FindByID", mock.Anything, "user_1").Return(&models.User{
		ID:       "user_1",
		IsActive: false,
	}, nil)

	_, err = service.Refresh(context.Background(), refresh)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestRefresh_InvalidToken(t *testing.T) {
	store := new(MockUserStore)
	service, _ := newTestService(store)

	_, err := service.Refresh(context.Background(), "garbage")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}
