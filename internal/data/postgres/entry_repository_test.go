package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func floatPtr(f float64) *float64 { return &f }

func sampleEntry(id string, created time.Time) *entry.Entry {
	return &entry.Entry{
		EntryID:          id,
		TimestampCreated: created,
		Date:             date.MustParse("2024-05-01"),
		CategoryID:       "FOOD_DRINK",
		AmountOriginal:   100,
		Currency:         "USD",
		AmountILS:        floatPtr(322.28),
		SyncStatus:       entry.SyncStatusPending,
	}
}

func documentOf(t *testing.T, e *entry.Entry) []byte {
	t.Helper()
	raw, err := json.Marshal(e)
	require.NoError(t, err)
	return raw
}

func TestEntryRepository_Put(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: newTestLogger()}
	e := sampleEntry("e-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	query := `INSERT INTO entries \(entry_id, timestamp_created, entry_date, is_cash_withdrawal, document\) VALUES \(\$1, \$2, \$3, \$4, \$5\) ON CONFLICT \(entry_id\) DO UPDATE`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("e-1", e.TimestampCreated, e.Date.Time(), false, documentOf(t, e)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repo.Put(ctx, e))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectExec(query).
			WithArgs("e-1", e.TimestampCreated, e.Date.Time(), false, pgxmock.AnyArg()).
			WillReturnError(expectedErr)

		err := repo.Put(ctx, e)
		assert.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "failed to put entry")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_Get(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: newTestLogger()}
	e := sampleEntry("e-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	query := `SELECT document FROM entries WHERE entry_id = \$1`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("e-1").
			WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow(documentOf(t, e)))

		got, err := repo.Get(ctx, "e-1")
		require.NoError(t, err)
		assert.Equal(t, e, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

		got, err := repo.Get(ctx, "missing")
		assert.Nil(t, got)
		var notFound entry.ErrEntryNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.EntryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		expectedErr := errors.New("connection reset")
		mock.ExpectQuery(query).WithArgs("e-1").WillReturnError(expectedErr)

		_, err := repo.Get(ctx, "e-1")
		assert.ErrorIs(t, err, expectedErr)
		assert.NotErrorIs(t, err, entry.ErrEntryNotFound{})
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: newTestLogger()}

	mock.ExpectExec(`DELETE FROM entries WHERE entry_id = \$1`).WithArgs("absent").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(ctx, "absent"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEntryRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: newTestLogger()}
	newer := sampleEntry("e-2", time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC))
	older := sampleEntry("e-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	query := `SELECT document FROM entries WHERE \(\$1 OR NOT is_cash_withdrawal\) ORDER BY timestamp_created DESC, entry_id DESC LIMIT \$2`

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(false, 2).
			WillReturnRows(pgxmock.NewRows([]string{"document"}).
				AddRow(documentOf(t, newer)).
				AddRow(documentOf(t, older)))

		got, err := repo.ListRecent(ctx, 2, entry.ListOptions{})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "e-2", got[0].EntryID)
		assert.Equal(t, "e-1", got[1].EntryID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero limit skips the query", func(t *testing.T) {
		got, err := repo.ListRecent(ctx, 0, entry.ListOptions{IncludeWithdrawals: true})
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("scan error", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(true, 5).
			WillReturnRows(pgxmock.NewRows([]string{"document"}).
				AddRow(documentOf(t, newer)).
				RowError(0, errors.New("broken row")))

		_, err := repo.ListRecent(ctx, 5, entry.ListOptions{IncludeWithdrawals: true})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository_ListAllAndClear(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &EntryRepository{querier: mock, logger: newTestLogger()}
	e := sampleEntry("e-1", time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))

	mock.ExpectQuery(`SELECT document FROM entries`).
		WillReturnRows(pgxmock.NewRows([]string{"document"}).AddRow(documentOf(t, e)))
	mock.ExpectExec(`DELETE FROM entries`).WillReturnResult(pgxmock.NewResult("DELETE", 1))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []*entry.Entry{e}, all)

	assert.NoError(t, repo.Clear(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
