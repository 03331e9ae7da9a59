package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/travel-ledger/internal/domain/entry"
)

// EntryRepository implements entry.Repository with GORM
type EntryRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewEntryRepository(logger *slog.Logger, db *gorm.DB) entry.Repository {
	return &EntryRepository{db: db, logger: logger}
}

func (r *EntryRepository) Put(ctx context.Context, e *entry.Entry) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	rec := entryRecord{
		EntryID:          e.EntryID,
		TimestampCreated: e.TimestampCreated.UTC(),
		EntryDate:        e.Date.String(),
		IsCashWithdrawal: e.IsCashWithdrawal(),
		Document:         string(doc),
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
	if err != nil {
		r.logger.Error("Failed to put entry", "entry_id", e.EntryID, "error", err)
		return fmt.Errorf("failed to put entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) Get(ctx context.Context, entryID string) (*entry.Entry, error) {
	var rec entryRecord
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entry.ErrEntryNotFound{EntryID: entryID}
		}
		r.logger.Error("Failed to get entry", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return decode(rec)
}

func (r *EntryRepository) Delete(ctx context.Context, entryID string) error {
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Delete(&entryRecord{}).Error
	if err != nil {
		r.logger.Error("Failed to delete entry", "entry_id", entryID, "error", err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]*entry.Entry, error) {
	var recs []entryRecord
	if err := r.db.WithContext(ctx).Find(&recs).Error; err != nil {
		r.logger.Error("Failed to list entries", "error", err)
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return decodeAll(recs)
}

// ListRecent walks the timestamp_created index newest first and stops
// after limit rows.
func (r *EntryRepository) ListRecent(ctx context.Context, limit int, opts entry.ListOptions) ([]*entry.Entry, error) {
	if limit <= 0 {
		return []*entry.Entry{}, nil
	}

	q := r.db.WithContext(ctx).
		Order("timestamp_created DESC").
		Order("entry_id DESC").
		Limit(limit)
	if !opts.IncludeWithdrawals {
		q = q.Where("is_cash_withdrawal = ?", false)
	}

	var recs []entryRecord
	if err := q.Find(&recs).Error; err != nil {
		r.logger.Error("Failed to list recent entries", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list recent entries: %w", err)
	}
	return decodeAll(recs)
}

func (r *EntryRepository) Clear(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&entryRecord{}).Error
	if err != nil {
		r.logger.Error("Failed to clear entries", "error", err)
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func decode(rec entryRecord) (*entry.Entry, error) {
	var e entry.Entry
	if err := json.Unmarshal([]byte(rec.Document), &e); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", rec.EntryID, err)
	}
	return &e, nil
}

func decodeAll(recs []entryRecord) ([]*entry.Entry, error) {
	entries := make([]*entry.Entry, 0, len(recs))
	for _, rec := range recs {
		e, err := decode(rec)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
