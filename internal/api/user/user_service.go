package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openats/openats/internal/api"
	"github.com/openats/openats/internal/api/auth"
	"github.com/openats/openats/internal/models"
)

type CreateRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Role      models.UserRole `json:"role"`
	Phone     string          `json:"phone,omitempty"`
	Avatar    string          `json:"avatar,omitempty"`
}

type Service struct {
	repo   *Repository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewService(repo *Repository, tokens *auth.TokenService, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

func (s *Service) List(ctx context.Context, f models.UserFilters) ([]models.UserProfile, int, error) {
	users, total, err := s.repo.Search(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	profiles := make([]models.UserProfile, len(users))
	for i, u := range users {
		profiles[i] = u.Profile()
	}
	return profiles, total, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.UserProfile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %q: %w", id, api.ErrNotFound)
	}
	p := u.Profile()
	return &p, nil
}

// Create is the admin path for provisioning accounts directly.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.UserProfile, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%w: email, password, firstName and lastName are required", api.ErrValidation)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", api.ErrValidation, req.Role)
	}

	existing, err := s.repo.FindByEmail(ctx, email)
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
	created, err := s.repo.Create(ctx, models.User{
		ID:        models.NewID("user"),
		Email:     email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "User created", slog.String("user_id", created.ID), slog.String("role", string(created.Role)))
	p := created.Profile()
	return &p, nil
}

// Update merges the partial onto the stored user. Identity and credential
// fields are never writable through this path.
func (s *Service) Update(ctx context.Context, id string, partial map[string]any) (*models.UserProfile, error) {
	delete(partial, "id")
	delete(partial, "email")
	delete(partial, "password")
	delete(partial, "createdAt")
	if len(partial) == 0 {
		return nil, fmt.Errorf("%w: no updatable fields supplied", api.ErrValidation)
	}
	if raw, ok := partial["role"]; ok {
		role, _ := raw.(string)
		if !models.UserRole(role).Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", api.ErrValidation, role)
		}
	}
	partial["updatedAt"] = models.NowISO()

	updated, err := s.repo.Update(ctx, id, partial)
	if err != nil {
		return nil, err
	}
	p := updated.Profile()
	return &p, nil
}

// Delete removes the account. Self-deletion is rejected so an admin cannot
// lock themselves out mid-session.
func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("%w: cannot delete your own account", api.ErrValidation)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "User deleted", slog.String("user_id", id), slog.String("deleted_by", actorID))
	return nil
}
