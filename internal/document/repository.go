package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/sync/errgroup"

	"github.com/openats/openats/internal/api"
)

const uniqueViolation = "23505"

// Repository is the type-parameterized CRUD + filtered-search accessor over
// one collection. It is stateless and safe for concurrent use; construct one
// per collection at startup and share it.
type Repository[T any] struct {
	store  *Store
	name   Collection
	logger *slog.Logger
}

func NewRepository[T any](store *Store, name Collection) *Repository[T] {
	return &Repository[T]{
		store:  store,
		name:   name,
		logger: store.logger.With(slog.String("collection", string(name))),
	}
}

// translate maps a store error to the domain taxonomy. The driver message is
// logged here and never propagated to callers.
func (r *Repository[T]) translate(ctx context.Context, op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s %s: %w", op, r.name, api.ErrConflict)
	}
	r.logger.ErrorContext(ctx, "Document store operation failed",
		slog.String("operation", op),
		slog.Any("error", err),
	)
	return fmt.Errorf("%s %s: %w", op, r.name, api.ErrQueryFailed)
}

// Create inserts a new document at id. Fails with ErrConflict when the id is
// already present.
func (r *Repository[T]) Create(ctx context.Context, id string, doc T) (T, error) {
	var zero T
	start := time.Now()
	ctx, cancel := r.store.pointCtx(ctx)
	defer cancel()

	payload, err := json.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode %s document: %w", r.name, err)
	}

	_, err = r.store.db.Exec(ctx,
		fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", r.name), id, payload)
	r.store.observe(r.name, "create", start, err)
	if err != nil {
		return zero, r.translate(ctx, "create", err)
	}
	return doc, nil
}

// FindByID returns nil (not an error) when the id is absent.
func (r *Repository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	start := time.Now()
	ctx, cancel := r.store.pointCtx(ctx)
	defer cancel()

	raw, err := r.getRaw(ctx, id)
	r.store.observe(r.name, "findById", start, err)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.translate(ctx, "findById", err)
	}

	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.name, err)
	}
	return &doc, nil
}

// Update shallow-merges the partial onto the stored document and persists the
// result: top-level keys of partial replace the existing values wholesale,
// including full arrays and nested objects. There is no version check, so two
// concurrent updates to the same id race and the second full merge wins.
func (r *Repository[T]) Update(ctx context.Context, id string, partial map[string]any) (*T, error) {
	start := time.Now()
	ctx, cancel := r.store.pointCtx(ctx)
	defer cancel()

	raw, err := r.getRaw(ctx, id)
	if err != nil {
		r.store.observe(r.name, "update", start, err)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update %s %q: %w", r.name, id, api.ErrNotFound)
		}
		return nil, r.translate(ctx, "update", err)
	}

	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.name, err)
	}
	for k, v := range partial {
		merged[k] = v
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.name, err)
	}

	_, err = r.store.db.Exec(ctx,
		fmt.Sprintf("UPDATE %s SET doc = $2 WHERE id = $1", r.name), id, payload)
	r.store.observe(r.name, "update", start, err)
	if err != nil {
		return nil, r.translate(ctx, "update", err)
	}

	var doc T
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.name, err)
	}
	return &doc, nil
}

// Delete fails with ErrNotFound when the id is absent.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	start := time.Now()
	ctx, cancel := r.store.pointCtx(ctx)
	defer cancel()

	tag, err := r.store.db.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.name), id)
	r.store.observe(r.name, "delete", start, err)
	if err != nil {
		return r.translate(ctx, "delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete %s %q: %w", r.name, id, api.ErrNotFound)
	}
	return nil
}

// Query executes the filtered, sorted, paginated read.
func (r *Repository[T]) Query(ctx context.Context, f *Filter) ([]T, error) {
	start := time.Now()
	ctx, cancel := r.store.queryCtx(ctx)
	defer cancel()

	sql, args := f.selectSQL(string(r.name))
	rows, err := r.store.db.Query(ctx, sql, args...)
	r.store.observe(r.name, "query", start, err)
	if err != nil {
		return nil, r.translate(ctx, "query", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, r.translate(ctx, "query", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", r.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate(ctx, "query", err)
	}
	return out, nil
}

// Count runs the parallel count query for the same filter (pagination
// ignored).
func (r *Repository[T]) Count(ctx context.Context, f *Filter) (int, error) {
	start := time.Now()
	ctx, cancel := r.store.queryCtx(ctx)
	defer cancel()

	sql, args := f.countSQL(string(r.name))
	var n int
	err := r.store.db.QueryRow(ctx, sql, args...).Scan(&n)
	r.store.observe(r.name, "count", start, err)
	if err != nil {
		return 0, r.translate(ctx, "count", err)
	}
	return n, nil
}

// Search runs the page query and the count query concurrently from the same
// filter, so total and page contents cannot disagree on filter construction.
func (r *Repository[T]) Search(ctx context.Context, f *Filter) ([]T, int, error) {
	var (
		items []T
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = r.Query(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = r.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindAll returns an unfiltered page of the collection.
func (r *Repository[T]) FindAll(ctx context.Context, limit, offset int) ([]T, error) {
	start := time.Now()
	ctx, cancel := r.store.queryCtx(ctx)
	defer cancel()

	rows, err := r.store.db.Query(ctx,
		fmt.Sprintf("SELECT doc FROM %s LIMIT $1 OFFSET $2", r.name), limit, offset)
	r.store.observe(r.name, "findAll", start, err)
	if err != nil {
		return nil, r.translate(ctx, "findAll", err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, r.translate(ctx, "findAll", err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode %s document: %w", r.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, r.translate(ctx, "findAll", err)
	}
	return out, nil
}

// CountAll returns the collection size.
func (r *Repository[T]) CountAll(ctx context.Context) (int, error) {
	return r.Count(ctx, NewFilter())
}

// First returns the first match for the filter, or nil when nothing matches.
func (r *Repository[T]) First(ctx context.Context, f *Filter) (*T, error) {
	f.Paginate(1, 1)
	items, err := r.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *Repository[T]) getRaw(ctx context.Context, id string) ([]byte, error) {
	var raw []byte
	err := r.store.db.QueryRow(ctx,
		fmt.Sprintf("SELECT doc FROM %s WHERE id = $1", r.name), id).Scan(&raw)
	return raw, err
}
