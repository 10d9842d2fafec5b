package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/models"
)

// UserStore is the slice of the user repository the auth flows need.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type RegisterRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Role      models.UserRole `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse is the token pair plus the caller's profile.
type AuthResponse struct {
	User         models.UserProfile `json:"user"`
	AccessToken  string             `json:"accessToken"`
	RefreshToken string             `json:"refreshToken"`
}

type Service struct {
	users  UserStore
	tokens *TokenService
	logger *slog.Logger
}

func NewService(users UserStore, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// Register creates a user and issues the token pair. The email-uniqueness
// invariant is checked here and again by the store's unique index.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: email, password, firstName and lastName are required", api.ErrValidation)
	}

	role := req.Role
	if role == "" {
		role = models.RoleRecruiter
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", api.ErrValidation, role)
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", api.ErrValidation)
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := models.NowISO()
	user := models.User{
		ID:        models.NewID("user"),
		Email:     email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.issuePair(created)
}

// Login verifies credentials and issues the token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", api.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: invalid credentials", api.ErrUnauthenticated)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", api.ErrForbidden)
	}

	ok, err := s.tokens.CheckPassword(req.Password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid credentials", api.ErrUnauthenticated)
	}

	return s.issuePair(*user)
}

// Refresh verifies a refresh token, re-checks the account and issues a fresh
// access token. There is no revocation list; an issued token stays valid
// until its natural expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", fmt.Errorf("%w: refresh token required", api.ErrValidation)
	}

	userID, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", fmt.Errorf("%w: invalid refresh token", api.ErrUnauthenticated)
	}

	return s.tokens.IssueAccessToken(user.Profile())
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID string) (*models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", api.ErrNotFound)
	}
	profile := user.Profile()
	return &profile, nil
}

func (s *Service) issuePair(user models.User) (*AuthResponse, error) {
	profile := user.Profile()

	accessToken, err := s.tokens.IssueAccessToken(profile)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         profile,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
