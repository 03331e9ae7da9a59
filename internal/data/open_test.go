package data

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-ledger/internal/config"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/platform/persistence"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	for _, cfg := range []*config.Config{
		{Storage: config.StorageConfig{Driver: config.DriverMemory}},
		{Storage: config.StorageConfig{Driver: config.DriverSQLite}, SQLite: config.SQLiteConfig{Path: persistence.MemoryPath}},
		{Storage: config.StorageConfig{Driver: config.DriverSQLite}, SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "ledger.db")}},
	} {
		t.Run(cfg.Storage.Driver+":"+cfg.SQLite.Path, func(t *testing.T) {
			stores, err := Open(ctx, testLogger(), cfg)
			require.NoError(t, err)
			defer stores.Close(ctx)

			e := &entry.Entry{
				EntryID:          "e-1",
				TimestampCreated: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
				Date:             date.MustParse("2024-05-01"),
				CategoryID:       "OTHER",
				SyncStatus:       entry.SyncStatusPending,
			}
			require.NoError(t, stores.Entries.Put(ctx, e))
			got, err := stores.Entries.Get(ctx, "e-1")
			require.NoError(t, err)
			assert.Equal(t, e, got)

			require.NoError(t, stores.Settings.Set(ctx, "lastSyncAt", json.RawMessage("null")))
			value, err := stores.Settings.Get(ctx, "lastSyncAt")
			require.NoError(t, err)
			assert.Equal(t, "null", string(value))
		})
	}
}

func TestOpen_SQLiteFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverSQLite},
		SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "ledger.db")},
	}

	stores, err := Open(ctx, testLogger(), cfg)
	require.NoError(t, err)
	require.NoError(t, stores.Settings.Set(ctx, "fx", json.RawMessage(`{"base":"ILS"}`)))
	require.NoError(t, stores.Close(ctx))

	stores, err = Open(ctx, testLogger(), cfg)
	require.NoError(t, err)
	defer stores.Close(ctx)

	value, err := stores.Settings.Get(ctx, "fx")
	require.NoError(t, err)
	assert.JSONEq(t, `{"base":"ILS"}`, string(value))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), testLogger(), &config.Config{Storage: config.StorageConfig{Driver: "indexeddb"}})
	assert.ErrorIs(t, err, persistence.ErrStorageUnavailable)
}
