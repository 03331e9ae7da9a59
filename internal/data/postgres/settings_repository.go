package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/travel-ledger/internal/domain/settings"
	"github.com/travel-ledger/internal/platform/persistence"
)

// SettingsRepository implements settings.Repository on a JSONB column
type SettingsRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

func NewSettingsRepository(logger *slog.Logger, db *persistence.PostgresDB) settings.Repository {
	return &SettingsRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Get returns nil, nil for a key that was never set.
func (r *SettingsRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	query := `SELECT value FROM settings WHERE key = $1`

	var value []byte
	if err := r.querier.QueryRow(ctx, query, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get setting", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return json.RawMessage(value), nil
}

func (r *SettingsRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.querier.Exec(ctx, query, key, []byte(value)); err != nil {
		r.logger.Error("Failed to set setting", "key", key, "error", err)
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.querier.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key); err != nil {
		r.logger.Error("Failed to delete setting", "key", key, "error", err)
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
