// Package storage opens the configured backing store and hands out the
// repositories the services need.
package storage

import (
	"context"
	"fmt"

	"github.com/alphagrade/alphagrade-backend/internal/config"
	"github.com/alphagrade/alphagrade-backend/internal/database"
	"github.com/alphagrade/alphagrade-backend/internal/model"
	"github.com/alphagrade/alphagrade-backend/internal/repository"
	"github.com/alphagrade/alphagrade-backend/internal/repository/sqlite"
	"github.com/alphagrade/alphagrade-backend/internal/service"
	"github.com/rs/zerolog"
)

// AccountStore is the account repository plus the operator-only count query.
type AccountStore interface {
	service.AccountRepository
	Count(ctx context.Context, role model.Role) (int, error)
}

// Stores bundles the repositories of one open database.
type Stores struct {
	Driver   string
	Accounts AccountStore
	Exams    service.ExamRepository

	ping  func(context.Context) error
	close func()
}

// Ping checks that the database still answers.
func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases the database handle.
func (s *Stores) Close() { s.close() }

// Open connects to the database selected by cfg.DatabaseDriver. PostgreSQL
// expects its schema from cmd/migrate; SQLite is migrated in place.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver:   config.DriverPostgres,
			Accounts: repository.NewAccountRepository(pool),
			Exams:    repository.NewExamRepository(pool),
			ping:     pool.Ping,
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return &Stores{
			Driver:   config.DriverSQLite,
			Accounts: sqlite.NewAccountStore(db),
			Exams:    sqlite.NewExamStore(db),
			ping:     db.PingContext,
			close:    func() { _ = db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
}
