// Package data wires the configured storage driver into the entry and
// settings repositories.
package data

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/travel-ledger/internal/config"
	"github.com/travel-ledger/internal/data/memory"
	"github.com/travel-ledger/internal/data/mongo"
	"github.com/travel-ledger/internal/data/postgres"
	"github.com/travel-ledger/internal/data/sqlite"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/settings"
	"github.com/travel-ledger/internal/platform/persistence"
)

// Stores is one open backend.
type Stores struct {
	Entries  entry.Repository
	Settings settings.Repository

	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects to the backend named by cfg.Storage.Driver and prepares its
// schema. Failures wrap persistence.ErrStorageUnavailable.
func Open(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Stores, error) {
	logger = logger.With("storage_driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := persistence.NewSQLiteDB(logger, &cfg.SQLite)
		if err != nil {
			return nil, err
		}
		if err := sqlite.AutoMigrate(db.DB()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: %w", persistence.ErrStorageUnavailable, err)
		}
		return &Stores{
			Entries:  sqlite.NewEntryRepository(logger, db.DB()),
			Settings: sqlite.NewSettingsRepository(logger, db.DB()),
			close:    func(context.Context) error { return db.Close() },
		}, nil

	case config.DriverPostgres:
		db, err := persistence.NewPostgresDB(ctx, logger, &cfg.Postgres)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Entries:  postgres.NewEntryRepository(logger, db),
			Settings: postgres.NewSettingsRepository(logger, db),
			close: func(context.Context) error {
				db.Close()
				return nil
			},
		}, nil

	case config.DriverMongo:
		db, err := persistence.NewMongoDB(ctx, logger, &cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		entries := mongo.NewEntryRepository(logger, db.Database())
		if err := entries.EnsureIndexes(ctx); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("%w: %w", persistence.ErrStorageUnavailable, err)
		}
		return &Stores{
			Entries:  entries,
			Settings: mongo.NewSettingsRepository(logger, db.Database()),
			close:    db.Close,
		}, nil

	case config.DriverMemory:
		return &Stores{
			Entries:  memory.NewEntryRepository(),
			Settings: memory.NewSettingsRepository(),
		}, nil
	}

	return nil, fmt.Errorf("%w: unknown storage driver %q", persistence.ErrStorageUnavailable, cfg.Storage.Driver)
}
