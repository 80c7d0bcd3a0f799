// Package postgres implements core.Store on PostgreSQL through pgxpool.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/query"
	"github.com/JonMunkholm/contactdesk/internal/store/migrate"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Config holds pool settings.
type Config struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

var _ core.Store = (*Store)(nil)

// Store is the PostgreSQL submissions store.
type Store struct {
	db   DB
	pool *pgxpool.Pool
	b    query.Builder
}

// New wraps an existing connection (pool or mock).
func New(db DB) *Store {
	s := &Store{db: db, b: query.NewBuilder(query.Postgres)}
	if pool, ok := db.(*pgxpool.Pool); ok {
		s.pool = pool
	}
	return s
}

// Open creates the connection pool. The pool connects lazily, so an
// unreachable server is reported by Ping rather than by Open.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxConns)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	logging.FromContext(ctx).Info("postgres pool created",
		"database", poolCfg.ConnConfig.Database,
		"max_conns", poolCfg.MaxConns,
	)
	return New(pool), nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("migrate: store has no pool")
	}
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()
	return migrate.Up(ctx, db, migrationsFS, "postgres", "migrations")
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Create(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	sql, args, err := s.b.Insert(in)
	if err != nil {
		return nil, err
	}

	var sub core.Submission
	if err := pgxscan.Get(ctx, s.db, &sub, sql, args...); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) List(ctx context.Context) ([]core.Submission, error) {
	return s.Query(ctx, core.Filter{})
}

func (s *Store) GetByID(ctx context.Context, id int64) (*core.Submission, error) {
	sql, args, err := s.b.SelectByID(id)
	if err != nil {
		return nil, err
	}

	var sub core.Submission
	if err := pgxscan.Get(ctx, s.db, &sub, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	return &sub, nil
}

func (s *Store) Query(ctx context.Context, f core.Filter) ([]core.Submission, error) {
	sql, args, err := s.b.Select(f)
	if err != nil {
		return nil, err
	}

	var subs []core.Submission
	if err := pgxscan.Select(ctx, s.db, &subs, sql, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	return subs, nil
}

func (s *Store) Stats(ctx context.Context, since time.Time) (*core.Stats, error) {
	sql, args, err := s.b.PlatformStats(since)
	if err != nil {
		return nil, err
	}

	var groups []core.PlatformGroup
	if err := pgxscan.Select(ctx, s.db, &groups, sql, args...); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return core.StatsFromGroups(groups), nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	sql, args, err := s.b.DeleteByID(id)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	sql, args, err := s.b.DeleteAll()
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete all submissions: %w", err)
	}
	logging.FromContext(ctx).Debug("submissions table cleared", "rows", tag.RowsAffected())
	return nil
}
