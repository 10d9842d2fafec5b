// Package user implements user administration: listing, lookup, admin-driven
// creation and role changes, activation toggles and deletion. Password hashes
// never leave the service layer; every read surface returns profiles.
package user

import (
	"context"

	"github.com/openats/openats/internal/document"
	"github.com/openats/openats/internal/models"
)

// Repository wraps the users collection. It satisfies auth.UserStore.
type Repository struct {
	docs *document.Repository[models.User]
}

func NewRepository(store *document.Store) *Repository {
	return &Repository{docs: document.NewRepository[models.User](store, document.Users)}
}

func (r *Repository) Create(ctx context.Context, u models.User) (models.User, error) {
	return r.docs.Create(ctx, u.ID, u)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.docs.FindByID(ctx, id)
}

// FindByEmail returns nil when no user carries the address.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.docs.First(ctx, document.NewFilter().Eq("email", email))
}

func (r *Repository) Update(ctx context.Context, id string, partial map[string]any) (*models.User, error) {
	return r.docs.Update(ctx, id, partial)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, id)
}

func (r *Repository) Search(ctx context.Context, f models.UserFilters) ([]models.User, int, error) {
	filter := document.NewFilter()
	if f.Role != "" {
		filter.Eq("role", string(f.Role))
	}
	if f.IsActive != nil {
		filter.EqBool("isActive", *f.IsActive)
	}
	if f.Search != "" {
		filter.ContainsAny([]string{"firstName", "lastName", "email"}, f.Search)
	}
	filter.OrderBy("createdAt", document.Descending)
	filter.Paginate(f.PageOrDefault(), f.LimitOrDefault())
	return r.docs.Search(ctx, filter)
}
