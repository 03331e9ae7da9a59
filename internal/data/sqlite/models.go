// Package sqlite stores entries and settings in a local SQLite file through
// GORM. It is the default backend of the ledger.
package sqlite

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// entryRecord keeps the full entry as a JSON document, plus the columns
// recent listings filter and sort on.
type entryRecord struct {
	EntryID          string    `gorm:"column:entry_id;primaryKey"`
	TimestampCreated time.Time `gorm:"column:timestamp_created;index;not null"`
	EntryDate        string    `gorm:"column:entry_date;size:10;index;not null"`
	IsCashWithdrawal bool      `gorm:"column:is_cash_withdrawal;not null"`
	Document         string    `gorm:"column:document;type:text;not null"`
}

func (entryRecord) TableName() string { return "entries" }

type settingRecord struct {
	Key       string `gorm:"column:setting_key;primaryKey"`
	Value     string `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time
}

func (settingRecord) TableName() string { return "settings" }

// AutoMigrate creates or updates the ledger tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entryRecord{}, &settingRecord{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
