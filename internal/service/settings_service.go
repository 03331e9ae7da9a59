package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/domain/settings"
)

// SettingsServiceImpl implements the SettingsService interface
type SettingsServiceImpl struct {
	entryRepo    entry.Repository
	settingsRepo settings.Repository
	currency     CurrencyService
	logger       *slog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	logger *slog.Logger,
	entryRepo entry.Repository,
	settingsRepo settings.Repository,
	currency CurrencyService,
) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		currency:     currency,
		logger:       logger,
	}
}

// Get returns the stored value of a well-known key, nil when unset.
func (s *SettingsServiceImpl) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if key == settings.KeyFX {
		return s.currency.Table().Encode()
	}
	return s.settingsRepo.Get(ctx, key)
}

// Set stores value under a well-known key. The currency table goes through
// the currency service so the in-memory table follows the stored one.
func (s *SettingsServiceImpl) Set(ctx context.Context, key string, value json.RawMessage) error {
	if err := checkKey(key); err != nil {
		return err
	}

	switch key {
	case settings.KeyFX:
		table, ok, err := fx.Decode(value)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSetting, err)
		}
		if !ok {
			return fmt.Errorf("%w: currency table has no rates", ErrInvalidSetting)
		}
		return s.currency.Replace(ctx, table)
	case settings.KeyLastSyncAt:
		if len(value) == 0 || isNull(value) {
			return s.settingsRepo.Set(ctx, key, json.RawMessage("null"))
		}
		var at time.Time
		if err := json.Unmarshal(value, &at); err != nil {
			return fmt.Errorf("%w: lastSyncAt must be an RFC 3339 time or null", ErrInvalidSetting)
		}
	}
	return s.settingsRepo.Set(ctx, key, value)
}

// LastSyncAt returns the stored sync marker, nil when
// there was none or the stored value is not a time.
func (s *SettingsServiceImpl) LastSyncAt(ctx context.Context) (*time.Time, error) {
	raw, err := s.settingsRepo.Get(ctx, settings.KeyLastSyncAt)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 || isNull(raw) {
		return nil, nil
	}
	var at time.Time
	if err := json.Unmarshal(raw, &at); err != nil {
		s.logger.Warn("Stored lastSyncAt is not a time", "error", err)
		return nil, nil
	}
	return &at, nil
}

// RestoreDefaults resets the currency table and clears lastSyncAt. Entries
// are left alone.
func (s *SettingsServiceImpl) RestoreDefaults(ctx context.Context) error {
	if err := s.currency.RestoreDefaults(ctx); err != nil {
		return err
	}
	return s.settingsRepo.Set(ctx, settings.KeyLastSyncAt, json.RawMessage("null"))
}

// ResetAll deletes every entry and setting, then reinitializes the
// currency table from defaults.
func (s *SettingsServiceImpl) ResetAll(ctx context.Context) error {
	if err := s.entryRepo.Clear(ctx); err != nil {
		return err
	}
	for _, key := range []string{settings.KeyFX, settings.KeyLastSyncAt} {
		if err := s.settingsRepo.Delete(ctx, key); err != nil {
			return err
		}
	}
	if err := s.currency.Initialize(ctx); err != nil {
		return err
	}
	s.logger.Warn("All local data reset")
	return nil
}

func checkKey(key string) error {
	if key != settings.KeyFX && key != settings.KeyLastSyncAt {
		return fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}
	return nil
}
