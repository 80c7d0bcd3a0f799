// Package store opens the submissions store selected by configuration.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JonMunkholm/contactdesk/internal/config"
	"github.com/JonMunkholm/contactdesk/internal/core"
	"github.com/JonMunkholm/contactdesk/internal/logging"
	"github.com/JonMunkholm/contactdesk/internal/store/local"
	"github.com/JonMunkholm/contactdesk/internal/store/mssql"
	"github.com/JonMunkholm/contactdesk/internal/store/postgres"
)

// Handle is an open store plus its lifecycle hooks.
type Handle interface {
	core.Store
	Close()
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// Open builds the configured store. An unreachable database is logged but
// does not fail Open: the service starts and reports the outage through the
// health endpoint until the database comes back.
func Open(ctx context.Context, cfg config.DatabaseConfig, redisCfg config.RedisConfig) (Handle, error) {
	log := logging.FromContext(ctx)

	var h Handle
	switch cfg.Driver {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, postgres.Config{
			URL:             cfg.URL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		h = s

	case config.DriverSQLServer:
		s, err := mssql.Open(ctx, mssql.Config{
			URL:             cfg.URL,
			MaxConns:        cfg.MaxConns,
			MinConns:        cfg.MinConns,
			MaxConnLifetime: cfg.MaxConnLifetime,
			MaxConnIdleTime: cfg.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		h = s

	case config.DriverLocal:
		s, err := OpenLocal(redisCfg)
		if err != nil {
			return nil, err
		}
		h = s

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}

	m, migrates := h.(migrator)
	migrates = migrates && cfg.AutoMigrate

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := h.Ping(pingCtx); err != nil {
		log.Error("database unreachable, starting anyway", "driver", cfg.Driver, "error", err)
		if migrates {
			return &migrateOnPing{Handle: h, m: m}, nil
		}
		return h, nil
	}
	log.Info("connected to database", "driver", cfg.Driver)

	if migrates {
		if err := m.Migrate(ctx); err != nil {
			log.Error("migrations failed", "driver", cfg.Driver, "error", err)
		}
	}
	return h, nil
}

// migrateOnPing holds back schema migrations for a database that was down at
// boot. The first Ping that reaches it runs them; a failed run is retried on
// the next Ping.
type migrateOnPing struct {
	Handle
	m migrator

	mu   sync.Mutex
	done atomic.Bool
}

func (s *migrateOnPing) Ping(ctx context.Context) error {
	if err := s.Handle.Ping(ctx); err != nil {
		return err
	}
	if s.done.Load() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done.Load() {
		return nil
	}

	log := logging.FromContext(ctx)
	if err := s.m.Migrate(ctx); err != nil {
		log.Error("deferred migrations failed", "error", err)
		return nil
	}
	s.done.Store(true)
	log.Info("database reachable, migrations applied")
	return nil
}

// OpenLocal returns the KV-backed store: Redis when a URL is configured,
// process memory otherwise.
func OpenLocal(cfg config.RedisConfig) (*local.Store, error) {
	if cfg.URL == "" {
		return local.NewMemory(local.WithPrefix(cfg.Prefix)), nil
	}
	kv, err := local.DialRedis(cfg.URL)
	if err != nil {
		return nil, err
	}
	return local.New(kv, local.WithPrefix(cfg.Prefix)), nil
}
