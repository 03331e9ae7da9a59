package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/travel-ledger/internal/domain/catalog"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/domain/settings"
)

// CurrencyServiceImpl implements the CurrencyService interface. Every
// mutation builds a new table, persists it and only then swaps it in, so a
// failed write leaves the current table in place.
type CurrencyServiceImpl struct {
	settingsRepo settings.Repository
	source       RateSource
	logger       *slog.Logger
	tracked      []string
	now          func() time.Time

	mu    sync.RWMutex
	table *fx.Table
}

// NewCurrencyService creates a currency service holding the default table
// until Initialize is called. source may be nil, in which case CheckRates
// always reports an error.
func NewCurrencyService(logger *slog.Logger, settingsRepo settings.Repository, source RateSource) *CurrencyServiceImpl {
	return &CurrencyServiceImpl{
		settingsRepo: settingsRepo,
		source:       source,
		logger:       logger,
		tracked:      catalog.Currencies(),
		now:          time.Now,
		table:        fx.DefaultTable(),
	}
}

// Initialize loads the stored table. A missing value, one without a rate
// mapping, or one that cannot be decoded is replaced by the defaults.
func (s *CurrencyServiceImpl) Initialize(ctx context.Context) error {
	raw, err := s.settingsRepo.Get(ctx, settings.KeyFX)
	if err != nil {
		return err
	}

	table, ok, err := fx.Decode(raw)
	if err != nil {
		s.logger.Warn("Stored currency table is unreadable, using defaults", "error", err)
	}
	if ok {
		s.swap(table)
		return nil
	}

	defaults := fx.DefaultTable()
	if err := s.persist(ctx, defaults); err != nil {
		return err
	}
	s.swap(defaults)
	s.logger.Info("Currency table initialized with defaults")
	return nil
}

// ToBase converts amount of code into the base currency using the current
// table. The code is trimmed and upper-cased first.
func (s *CurrencyServiceImpl) ToBase(amount float64, code string) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.ToBase(amount, normalizeCode(code))
}

// Table returns a copy of the current table.
func (s *CurrencyServiceImpl) Table() *fx.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Clone()
}

// SetRate manually sets one rate and persists the table.
func (s *CurrencyServiceImpl) SetRate(ctx context.Context, code string, rate float64) error {
	next, err := s.Table().WithRate(normalizeCode(code), rate, s.now().UTC())
	if err != nil {
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.swap(next)
	s.logger.Info("Currency rate updated", "currency", normalizeCode(code), "rate", rate)
	return nil
}

// Reconcile compares the current table with external rates without
// changing anything.
func (s *CurrencyServiceImpl) Reconcile(external map[string]float64) []fx.Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table.Reconcile(s.tracked, external)
}

// CheckRates fetches external rates and reconciles them. Nothing is
// written: failures are reported on the result and the caller decides
// whether to apply the changes.
func (s *CurrencyServiceImpl) CheckRates(ctx context.Context) fx.Reconciliation {
	result := fx.Reconciliation{CheckedAt: s.now().UTC()}
	if s.source == nil {
		result.Err = fmt.Errorf("no rate source configured")
		return result
	}

	external, err := s.source.FetchRates(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch external rates", "error", err)
		result.Err = err
		return result
	}

	result.Changes = s.Reconcile(external)
	s.logger.Info("Rates checked", "changes", len(result.Changes))
	return result
}

// ApplyReconciliation applies the given changes and persists the table.
// An empty change list leaves everything untouched.
func (s *CurrencyServiceImpl) ApplyReconciliation(ctx context.Context, changes []fx.Change) error {
	if len(changes) == 0 {
		return nil
	}
	next := s.Table().Apply(changes, s.now().UTC())
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.swap(next)
	s.logger.Info("Rate changes applied", "changes", len(changes))
	return nil
}

// RestoreDefaults replaces the table with the built-in rate set.
func (s *CurrencyServiceImpl) RestoreDefaults(ctx context.Context) error {
	defaults := fx.DefaultTable()
	if err := s.persist(ctx, defaults); err != nil {
		return err
	}
	s.swap(defaults)
	s.logger.Info("Currency table restored to defaults")
	return nil
}

// Replace installs table as the current table, typically from an import.
func (s *CurrencyServiceImpl) Replace(ctx context.Context, table *fx.Table) error {
	if table == nil || table.RatesToBase == nil {
		return fmt.Errorf("%w: currency table has no rates", fx.ErrInvalidRate)
	}
	next := table.Clone()
	if next.Base == "" {
		next.Base = fx.Base
	}
	next.RatesToBase[next.Base] = 1

	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.swap(next)
	return nil
}

func (s *CurrencyServiceImpl) persist(ctx context.Context, table *fx.Table) error {
	raw, err := table.Encode()
	if err != nil {
		return err
	}
	return s.settingsRepo.Set(ctx, settings.KeyFX, raw)
}

func (s *CurrencyServiceImpl) swap(table *fx.Table) {
	s.mu.Lock()
	s.table = table
	s.mu.Unlock()
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
