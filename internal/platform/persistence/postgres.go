package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/travel-ledger/internal/config"
)

// applicationName tags ledger sessions in pg_stat_activity.
const applicationName = "travel-ledger"

// Querier is what the postgres repositories need from a connection. Both
// *pgxpool.Pool and pgxmock pools implement it.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var _ Querier = (*pgxpool.Pool)(nil)

// PostgresDB is an open pool over a migrated ledger schema.
type PostgresDB struct {
	pool          *pgxpool.Pool
	schemaVersion uint
	logger        *slog.Logger
}

// NewPostgresDB migrates the schema to the latest version and only then
// opens the pool, so repositories never see a partial schema.
func NewPostgresDB(ctx context.Context, logger *slog.Logger, cfg *config.PostgresConfig) (*PostgresDB, error) {
	version, err := RunMigrations(logger, cfg.URL, cfg.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	poolConfig, err := newPoolConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create PostgreSQL connection pool: %w", ErrStorageUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: failed to ping PostgreSQL: %w", ErrStorageUnavailable, err)
	}

	logger.Info("Ledger store opened",
		"driver", config.DriverPostgres,
		"schema_version", version,
		"max_conns", poolConfig.MaxConns,
	)
	return &PostgresDB{pool: pool, schemaVersion: version, logger: logger}, nil
}

// newPoolConfig parses the connection string and applies the pool limits.
func newPoolConfig(cfg *config.PostgresConfig) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
	}
	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = min(cfg.MinConns, cfg.MaxConns)
	poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.ConnMaxIdleTime
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return poolConfig, nil
}

// Pool returns the connection pool.
func (db *PostgresDB) Pool() *pgxpool.Pool {
	return db.pool
}

// SchemaVersion is the migration version the schema was brought to.
func (db *PostgresDB) SchemaVersion() uint {
	return db.schemaVersion
}

func (db *PostgresDB) Close() {
	db.pool.Close()
	db.logger.Info("Ledger store closed", "driver", config.DriverPostgres)
}
