// Package postgres provides PostgreSQL implementations of the entry and
// settings repositories. Entries are stored as a JSONB document next to
// the few columns the queries filter and sort on.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/platform/persistence"
)

// EntryRepository implements the entry.Repository interface for PostgreSQL
type EntryRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewEntryRepository creates a new PostgreSQL entry repository.
func NewEntryRepository(logger *slog.Logger, db *persistence.PostgresDB) entry.Repository {
	return &EntryRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Put inserts the entry or replaces the stored one with the same id.
func (r *EntryRepository) Put(ctx context.Context, e *entry.Entry) error {
	query := `
		INSERT INTO entries (entry_id, timestamp_created, entry_date, is_cash_withdrawal, document)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entry_id) DO UPDATE
		SET timestamp_created = EXCLUDED.timestamp_created,
			entry_date = EXCLUDED.entry_date,
			is_cash_withdrawal = EXCLUDED.is_cash_withdrawal,
			document = EXCLUDED.document
	`

	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode entry: %w", err)
	}

	_, err = r.querier.Exec(ctx, query,
		e.EntryID,
		e.TimestampCreated,
		e.Date.Time(),
		e.IsCashWithdrawal(),
		doc,
	)
	if err != nil {
		r.logger.Error("Failed to put entry", "entry_id", e.EntryID, "error", err)
		return fmt.Errorf("failed to put entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by its id
func (r *EntryRepository) Get(ctx context.Context, entryID string) (*entry.Entry, error) {
	query := `
		SELECT document
		FROM entries
		WHERE entry_id = $1
	`

	var doc []byte
	err := r.querier.QueryRow(ctx, query, entryID).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entry.ErrEntryNotFound{EntryID: entryID}
		}
		r.logger.Error("Failed to get entry", "entry_id", entryID, "error", err)
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}

	var e entry.Entry
	if err := json.Unmarshal(doc, &e); err != nil {
		return nil, fmt.Errorf("failed to decode entry %s: %w", entryID, err)
	}
	return &e, nil
}

func (r *EntryRepository) Delete(ctx context.Context, entryID string) error {
	query := `DELETE FROM entries WHERE entry_id = $1`

	if _, err := r.querier.Exec(ctx, query, entryID); err != nil {
		r.logger.Error("Failed to delete entry", "entry_id", entryID, "error", err)
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]*entry.Entry, error) {
	query := `SELECT document FROM entries`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list entries", "error", err)
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return r.scanEntries(rows)
}

// ListRecent relies on the timestamp_created index so Postgres stops
// reading after limit rows.
func (r *EntryRepository) ListRecent(ctx context.Context, limit int, opts entry.ListOptions) ([]*entry.Entry, error) {
	if limit <= 0 {
		return []*entry.Entry{}, nil
	}

	query := `
		SELECT document
		FROM entries
		WHERE ($1 OR NOT is_cash_withdrawal)
		ORDER BY timestamp_created DESC, entry_id DESC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, opts.IncludeWithdrawals, limit)
	if err != nil {
		r.logger.Error("Failed to list recent entries", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to list recent entries: %w", err)
	}
	return r.scanEntries(rows)
}

func (r *EntryRepository) Clear(ctx context.Context) error {
	if _, err := r.querier.Exec(ctx, `DELETE FROM entries`); err != nil {
		r.logger.Error("Failed to clear entries", "error", err)
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func (r *EntryRepository) scanEntries(rows pgx.Rows) ([]*entry.Entry, error) {
	defer rows.Close()

	entries := []*entry.Entry{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			r.logger.Error("Failed to scan entry row", "error", err)
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		var e entry.Entry
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("failed to decode entry: %w", err)
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating entry rows", "error", err)
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}
