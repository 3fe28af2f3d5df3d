package db

import (
	"context"
	"fmt"

	"mywallet/internal/config"
	"mywallet/internal/logger"
	"mywallet/internal/repository"
	"mywallet/internal/service"
	"mywallet/internal/storage"
)

// Stores bundles the store implementations selected by configuration
// together with their health checks and cleanup.
type Stores struct {
	Users    service.UserStore
	Sessions service.SessionStore
	Ledger   service.LedgerStore

	checks  map[string]func(context.Context) error
	closers []func()
}

// OpenStores connects to the configured backends. The caller owns the
// result and must call Close.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	s := &Stores{checks: make(map[string]func(context.Context) error)}

	switch cfg.Driver {
	case config.DriverSQLite:
		sdb, err := storage.NewDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		s.addCloser(func() { _ = sdb.Close() })
		s.checks["database"] = sdb.Ping
		s.Users, s.Sessions, s.Ledger = sdb, sdb, sdb
		logger.Info("using sqlite store", "path", cfg.SQLitePath)

	default:
		pool, err := Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.addCloser(pool.Close)
		s.checks["database"] = pool.Ping

		if cfg.AutoMigrate {
			if _, err := Migrate(ctx, pool); err != nil {
				s.Close()
				return nil, err
			}
		}

		s.Users = repository.NewUserRepository(pool)
		s.Sessions = repository.NewSessionRepository(pool)
		s.Ledger = repository.NewTransactionRepository(pool)
	}

	if cfg.SessionStore == config.SessionStoreRedis {
		client, err := ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.addCloser(func() { _ = client.Close() })
		s.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		s.Sessions = repository.NewRedisSessionRepository(client)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	}

	return s, nil
}

// Checks returns the readiness checks of the open backends.
func (s *Stores) Checks() map[string]func(context.Context) error {
	return s.checks
}

func (s *Stores) addCloser(fn func()) {
	s.closers = append(s.closers, fn)
}

// Close releases the backends in reverse order of opening.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
