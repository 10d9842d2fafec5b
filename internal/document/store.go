// Package document implements the generic per-collection repository shared by
// every entity. Documents are opaque JSON objects stored one table per
// collection as (id text primary key, doc jsonb).
package document

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/openats/openats/internal/observability/metrics"
)

// Collection names the known document collections. Table names are derived
// from these constants only; caller-controlled strings never reach SQL text.
type Collection string

const (
	Users        Collection = "users"
	Jobs         Collection = "jobs"
	Candidates   Collection = "candidates"
	Applications Collection = "applications"
	Interviews   Collection = "interviews"
	Tasks        Collection = "tasks"
)

// Fixed per-operation-class deadlines. Point operations are key lookups and
// single-document writes; query covers filtered and aggregate reads.
const (
	pointOpTimeout = 5 * time.Second
	queryTimeout   = 15 * time.Second
)

// DB is the subset of pgxpool.Pool the store uses; pgxmock satisfies it too.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a stateless, cheaply shared accessor over one process-wide
// connection pool. Repositories of all collections hang off a single Store.
type Store struct {
	db      DB
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewStore(db DB, logger *slog.Logger, m *metrics.Metrics) *Store {
	return &Store{db: db, logger: logger, metrics: m}
}

func (s *Store) pointCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, pointOpTimeout)
}

func (s *Store) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

func (s *Store) observe(collection Collection, operation string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveDBQuery(string(collection), operation, time.Since(start), err != nil)
	}
}
