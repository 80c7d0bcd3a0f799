// Package mssql implements core.Store on Microsoft SQL Server through
// database/sql and the go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/query"
	"github.com/JonMunkholm/contactdesk/internal/store/migrate"
	"github.com/georgysavva/scany/v2/sqlscan"

	// Registers the "sqlserver" driver.
	_ "github.com/microsoft/go-mssqldb"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Config holds connection pool settings.
type Config struct {
	URL             string
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

var _ core.Store = (*Store)(nil)

// Store is the SQL Server submissions store.
type Store struct {
	db *sql.DB
	b  query.Builder
}

// New wraps an open handle. Tests pass a go-sqlmock handle.
func New(db *sql.DB) *Store {
	return &Store{db: db, b: query.NewBuilder(query.SQLServer)}
}

// Open prepares the handle. database/sql dials lazily, so connectivity is
// checked by Ping.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sql.Open("sqlserver", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open sqlserver: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	db.SetMaxIdleConns(max(cfg.MinConns, 2))
	db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	db.SetConnMaxIdleTime(cfg.MaxConnIdleTime)

	logging.FromContext(ctx).Info("sqlserver pool created", "max_conns", cfg.MaxConns)
	return New(db), nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return migrate.Up(ctx, s.db, migrationsFS, "sqlserver", "migrations")
}

// Close releases the pool.
func (s *Store) Close() {
	_ = s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Create(ctx context.Context, in core.NewSubmission) (*core.Submission, error) {
	q, args, err := s.b.Insert(in)
	if err != nil {
		return nil, err
	}

	var sub core.Submission
	if err := sqlscan.Get(ctx, s.db, &sub, q, args...); err != nil {
		return nil, fmt.Errorf("insert submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) List(ctx context.Context) ([]core.Submission, error) {
	return s.Query(ctx, core.Filter{})
}

func (s *Store) GetByID(ctx context.Context, id int64) (*core.Submission, error) {
	q, args, err := s.b.SelectByID(id)
	if err != nil {
		return nil, err
	}

	var sub core.Submission
	if err := sqlscan.Get(ctx, s.db, &sub, q, args...); err != nil {
		if sqlscan.NotFound(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	return &sub, nil
}

func (s *Store) Query(ctx context.Context, f core.Filter) ([]core.Submission, error) {
	q, args, err := s.b.Select(f)
	if err != nil {
		return nil, err
	}

	var subs []core.Submission
	if err := sqlscan.Select(ctx, s.db, &subs, q, args...); err != nil {
		return nil, fmt.Errorf("select submissions: %w", err)
	}
	return subs, nil
}

func (s *Store) Stats(ctx context.Context, since time.Time) (*core.Stats, error) {
	q, args, err := s.b.PlatformStats(since)
	if err != nil {
		return nil, err
	}

	var groups []core.PlatformGroup
	if err := sqlscan.Select(ctx, s.db, &groups, q, args...); err != nil {
		return nil, fmt.Errorf("platform stats: %w", err)
	}
	return core.StatsFromGroups(groups), nil
}

func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	q, args, err := s.b.DeleteByID(id)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("delete submission %d: %w", id, err)
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	q, args, err := s.b.DeleteAll()
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("delete all submissions: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		logging.FromContext(ctx).Debug("submissions table cleared", "rows", n)
	}
	return nil
}
