package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
)

// Common errors
var (
	ErrUnknownCategory   = errors.New("unknown category")
	ErrInvalidSnapshot   = errors.New("invalid snapshot")
	ErrUnsupportedSchema = errors.New("unsupported snapshot schema")
	ErrInvalidRange      = errors.New("invalid date range")
	ErrUnknownSetting    = errors.New("unknown setting key")
	ErrInvalidSetting    = errors.New("invalid setting value")
)

// RateSource returns, for each currency it knows, how many units of that
// currency one unit of the base currency buys.
type RateSource interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
}

// CurrencyService owns the in-memory currency table.
type CurrencyService interface {
	// Initialize loads the stored table, falling back to the built-in
	// defaults (and persisting them) when nothing usable is stored.
	Initialize(ctx context.Context) error
	ToBase(amount float64, code string) (float64, bool)
	Table() *fx.Table
	SetRate(ctx context.Context, code string, rate float64) error
	Reconcile(external map[string]float64) []fx.Change
	CheckRates(ctx context.Context) fx.Reconciliation
	ApplyReconciliation(ctx context.Context, changes []fx.Change) error
	RestoreDefaults(ctx context.Context) error
	Replace(ctx context.Context, table *fx.Table) error
}

// EntryService builds and stores entries from user input.
type EntryService interface {
	Save(ctx context.Context, req *SaveEntryRequest) (*entry.Entry, error)
	Get(ctx context.Context, entryID string) (*entry.Entry, error)
	Delete(ctx context.Context, entryID string) error
	ListRecent(ctx context.Context, limit int, includeWithdrawals bool) ([]*entry.Entry, error)
}

// ReportService aggregates stored entries by day.
type ReportService interface {
	SpendForDay(ctx context.Context, day date.Date) (float64, error)
	SpendForRange(ctx context.Context, from, to date.Date) ([]DayTotal, error)
}

// SnapshotService moves the whole ledger in and out of a portable document.
type SnapshotService interface {
	Export(ctx context.Context) (*Snapshot, error)
	Import(ctx context.Context, raw []byte) (*ImportResult, error)
	ExportWorkbook(ctx context.Context, w io.Writer) error
}

// SettingsService exposes the settings store and the reset operations.
type SettingsService interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	LastSyncAt(ctx context.Context) (*time.Time, error)
	RestoreDefaults(ctx context.Context) error
	ResetAll(ctx context.Context) error
}
