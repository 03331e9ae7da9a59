// Package components assembles the ledger services on top of the configured
// storage backend. Both binaries start from here.
package components

import (
	"context"
	"errors"
	"log/slog"

	"github.com/travel-ledger/internal/config"
	"github.com/travel-ledger/internal/data"
	"github.com/travel-ledger/internal/platform/ratesource"
	"github.com/travel-ledger/internal/service"
)

// Ledger holds every service of one running engine.
type Ledger struct {
	Currency *service.CurrencyServiceImpl
	Entries  *service.EntryServiceImpl
	Reports  *service.ReportServiceImpl
	Snapshot *service.SnapshotServiceImpl
	Settings *service.SettingsServiceImpl

	stores *data.Stores
	logger *slog.Logger
}

// NewLedger opens storage, loads the currency table and builds the
// services.
func NewLedger(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Ledger, error) {
	stores, err := data.Open(ctx, logger, cfg)
	if err != nil {
		return nil, err
	}
	l, err := newLedger(ctx, logger, cfg, stores, ratesource.NewClient(logger, &cfg.FX, nil))
	if err != nil {
		_ = stores.Close(ctx)
		return nil, err
	}
	return l, nil
}

func newLedger(ctx context.Context, logger *slog.Logger, cfg *config.Config, stores *data.Stores, source service.RateSource) (*Ledger, error) {
	currency := service.NewCurrencyService(logger.With("component", "currency"), stores.Settings, source)
	if err := currency.Initialize(ctx); err != nil {
		return nil, err
	}

	reports, err := service.NewReportService(
		logger.With("component", "reports"),
		stores.Entries,
		service.WorkerPoolConfig{Size: cfg.WorkerPool.Size},
	)
	if err != nil {
		return nil, err
	}
	logger.Info("Created report worker pool", "pool_size", cfg.WorkerPool.Size)

	return &Ledger{
		Currency: currency,
		Entries:  service.NewEntryService(logger.With("component", "entries"), stores.Entries, currency),
		Reports:  reports,
		Snapshot: service.NewSnapshotService(logger.With("component", "snapshot"), stores.Entries, stores.Settings, currency),
		Settings: service.NewSettingsService(logger.With("component", "settings"), stores.Entries, stores.Settings, currency),
		stores:   stores,
		logger:   logger,
	}, nil
}

// Close stops the worker pool and releases storage.
func (l *Ledger) Close(ctx context.Context) error {
	l.Reports.Shutdown()
	if err := l.stores.Close(ctx); err != nil {
		return errors.Join(errors.New("failed to close storage"), err)
	}
	return nil
}
