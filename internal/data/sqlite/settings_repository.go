package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/travel-ledger/internal/domain/settings"
)

type SettingsRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewSettingsRepository(logger *slog.Logger, db *gorm.DB) settings.Repository {
	return &SettingsRepository{db: db, logger: logger}
}

func (r *SettingsRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var rec settingRecord
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get setting", "key", key, "error", err)
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return json.RawMessage(rec.Value), nil
}

func (r *SettingsRepository) Set(ctx context.Context, key string, value json.RawMessage) error {
	rec := settingRecord{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		r.logger.Error("Failed to set setting", "key", key, "error", err)
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

func (r *SettingsRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("setting_key = ?", key).Delete(&settingRecord{}).Error; err != nil {
		r.logger.Error("Failed to delete setting", "key", key, "error", err)
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}
