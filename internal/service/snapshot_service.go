package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/travel-ledger/internal/domain/entry"
	"github.com/travel-ledger/internal/domain/fx"
	"github.com/travel-ledger/internal/domain/settings"
	"github.com/xuri/excelize/v2"
)

// SnapshotSchema tags every exported document.
const SnapshotSchema = "financial_travel_app_export_v1"

// Snapshot is the portable form of the whole ledger.
type Snapshot struct {
	Schema     string           `json:"schema"`
	ExportedAt time.Time        `json:"exportedAt"`
	Entries    []*entry.Entry   `json:"entries"`
	Settings   SnapshotSettings `json:"settings"`
}

// SnapshotSettings carries the settings values verbatim. A nil value is
// written as JSON null.
type SnapshotSettings struct {
	FX         json.RawMessage `json:"fx"`
	LastSyncAt json.RawMessage `json:"lastSyncAt"`
}

// ImportResult summarizes what an import applied.
type ImportResult struct {
	Imported      int  `json:"imported"`
	Skipped       int  `json:"skipped"`
	FXReplaced    bool `json:"fxReplaced"`
	LastSyncAtSet bool `json:"lastSyncAtSet"`
}

// SnapshotServiceImpl implements the SnapshotService interface
type SnapshotServiceImpl struct {
	entryRepo    entry.Repository
	settingsRepo settings.Repository
	currency     CurrencyService
	logger       *slog.Logger
	now          func() time.Time
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(
	logger *slog.Logger,
	entryRepo entry.Repository,
	settingsRepo settings.Repository,
	currency CurrencyService,
) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{
		entryRepo:    entryRepo,
		settingsRepo: settingsRepo,
		currency:     currency,
		logger:       logger,
		now:          time.Now,
	}
}

// Export collects every entry and the settings into a snapshot. Entries
// are ordered by creation time, ties broken by id.
func (s *SnapshotServiceImpl) Export(ctx context.Context) (*Snapshot, error) {
	entries, err := s.sortedEntries(ctx)
	if err != nil {
		return nil, err
	}

	fxRaw, err := s.currency.Table().Encode()
	if err != nil {
		return nil, err
	}
	lastSync, err := s.settingsRepo.Get(ctx, settings.KeyLastSyncAt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot exported", "entries", len(entries))
	return &Snapshot{
		Schema:     SnapshotSchema,
		ExportedAt: s.now().UTC(),
		Entries:    entries,
		Settings:   SnapshotSettings{FX: fxRaw, LastSyncAt: lastSync},
	}, nil
}

func (s *SnapshotServiceImpl) sortedEntries(ctx context.Context) ([]*entry.Entry, error) {
	entries, err := s.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*entry.Entry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.TimestampCreated.Equal(b.TimestampCreated) {
			return a.TimestampCreated.Before(b.TimestampCreated)
		}
		return a.EntryID < b.EntryID
	})
	return entries, nil
}

// parsedSnapshot is an import document that passed the structural checks.
type parsedSnapshot struct {
	entries     []*entry.Entry
	skipped     int
	fx          *fx.Table
	lastSync    json.RawMessage
	hasLastSync bool
}

// Import upserts the entries of a snapshot and applies its settings. The
// document is checked as a whole before anything is written: a malformed
// document changes nothing, while individual entries that lack an id, date
// or category are skipped. Entries not present in the snapshot are kept.
func (s *SnapshotServiceImpl) Import(ctx context.Context, raw []byte) (*ImportResult, error) {
	parsed, err := s.parse(raw)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Skipped: parsed.skipped}
	for _, e := range parsed.entries {
		if err := s.entryRepo.Put(ctx, e); err != nil {
			return result, err
		}
		result.Imported++
	}

	if parsed.fx != nil {
		if err := s.currency.Replace(ctx, parsed.fx); err != nil {
			return result, err
		}
		result.FXReplaced = true
	}
	if parsed.hasLastSync {
		if err := s.settingsRepo.Set(ctx, settings.KeyLastSyncAt, parsed.lastSync); err != nil {
			return result, err
		}
		result.LastSyncAtSet = true
	}

	s.logger.Info("Snapshot imported",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"fx_replaced", result.FXReplaced,
	)
	return result, nil
}

func (s *SnapshotServiceImpl) parse(raw []byte) (*parsedSnapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		return nil, fmt.Errorf("%w: document is not a JSON object", ErrInvalidSnapshot)
	}

	if schemaRaw, ok := doc["schema"]; ok && !isNull(schemaRaw) {
		var schema string
		if err := json.Unmarshal(schemaRaw, &schema); err != nil {
			return nil, fmt.Errorf("%w: schema is not a string", ErrInvalidSnapshot)
		}
		if schema != "" && schema != SnapshotSchema {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedSchema, schema)
		}
	}

	entriesRaw, ok := doc["entries"]
	if !ok || isNull(entriesRaw) {
		return nil, fmt.Errorf("%w: entries is missing", ErrInvalidSnapshot)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(entriesRaw, &items); err != nil {
		return nil, fmt.Errorf("%w: entries is not an array", ErrInvalidSnapshot)
	}

	parsed := &parsedSnapshot{}
	for i, item := range items {
		e, err := decodeEntry(item)
		if err != nil {
			s.logger.Debug("Skipping snapshot entry", "index", i, "error", err)
			parsed.skipped++
			continue
		}
		parsed.entries = append(parsed.entries, e)
	}

	settingsRaw, ok := doc["settings"]
	if !ok || isNull(settingsRaw) {
		return parsed, nil
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(settingsRaw, &values); err != nil {
		return nil, fmt.Errorf("%w: settings is not an object", ErrInvalidSnapshot)
	}

	if fxRaw, ok := values[settings.KeyFX]; ok && !isNull(fxRaw) {
		table, ok, err := fx.Decode(fxRaw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		if ok {
			parsed.fx = table
		} else {
			s.logger.Debug("Snapshot currency table has no rates, keeping current table")
		}
	}
	if lastSync, ok := values[settings.KeyLastSyncAt]; ok {
		parsed.lastSync = lastSync
		parsed.hasLastSync = true
	}
	return parsed, nil
}

// importDocument reads timestampCreated on its own so an empty value
// does not cost the whole entry.
type importDocument struct {
	entry.Document
	TimestampCreated json.RawMessage `json:"timestampCreated"`
}

// decodeEntry only drops what cannot be represented. Stored values such as
// a span that ends before it starts are kept for the caller to see.
func decodeEntry(raw json.RawMessage) (*entry.Entry, error) {
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if stamp := bytes.TrimSpace(doc.TimestampCreated); len(stamp) > 0 && !isNull(stamp) && string(stamp) != `""` {
		if err := json.Unmarshal(stamp, &doc.Document.TimestampCreated); err != nil {
			return nil, fmt.Errorf("timestampCreated: %w", err)
		}
	}
	return entry.FromDocument(doc.Document)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

const (
	entriesSheet = "Entries"
	ratesSheet   = "Rates"
)

var workbookHeaders = []any{
	"Date", "End Date", "Category", "Description", "Country", "Place",
	"Amount", "Currency", "Amount (ILS)", "Payment Method", "Refund",
	"Cash Amount", "Cash Currency", "Fee", "Fee Currency", "Total (ILS)", "Notes",
}

// ExportWorkbook writes every entry and the current rates as an XLSX
// workbook.
func (s *SnapshotServiceImpl) ExportWorkbook(ctx context.Context, w io.Writer) error {
	entries, err := s.sortedEntries(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", entriesSheet); err != nil {
		return fmt.Errorf("failed to create workbook: %w", err)
	}
	if err := f.SetSheetRow(entriesSheet, "A1", &workbookHeaders); err != nil {
		return fmt.Errorf("failed to write workbook header: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := workbookRow(e)
		if err := f.SetSheetRow(entriesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write workbook row: %w", err)
		}
	}
	_ = f.SetColWidth(entriesSheet, "A", "B", 12)
	_ = f.SetColWidth(entriesSheet, "C", "D", 24)
	_ = f.SetColWidth(entriesSheet, "Q", "Q", 30)

	if err := s.writeRatesSheet(f); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	s.logger.Info("Workbook exported", "entries", len(entries))
	return nil
}

func (s *SnapshotServiceImpl) writeRatesSheet(f *excelize.File) error {
	if _, err := f.NewSheet(ratesSheet); err != nil {
		return fmt.Errorf("failed to create rates sheet: %w", err)
	}
	header := []any{"Currency", "Rate to ILS"}
	if err := f.SetSheetRow(ratesSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write rates header: %w", err)
	}

	table := s.currency.Table()
	codes := make([]string, 0, len(table.RatesToBase))
	for code := range table.RatesToBase {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for i, code := range codes {
		row := []any{code, table.RatesToBase[code]}
		if err := f.SetSheetRow(ratesSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("failed to write rates row: %w", err)
		}
	}
	return nil
}

func workbookRow(e *entry.Entry) []any {
	row := make([]any, len(workbookHeaders))
	row[0] = e.Date.String()
	if e.Span != nil {
		if end, ok := e.Span.EffectiveEnd(e.Date); ok {
			row[1] = end.String()
		}
	}
	row[2] = e.CategoryID
	row[3] = e.Description
	row[4] = e.Country
	row[5] = e.PlaceName
	row[6] = e.AmountOriginal
	row[7] = e.Currency
	if e.AmountILS != nil {
		row[8] = *e.AmountILS
	}
	row[9] = e.PaymentMethodID
	row[10] = e.IsRefund
	if w := e.Withdrawal; w != nil {
		row[11] = w.CashAmount
		row[12] = w.CashCurrency
		row[13] = w.FeeAmount
		row[14] = w.FeeCurrency
		if w.TotalILS != nil {
			row[15] = *w.TotalILS
		}
	}
	row[16] = e.Notes
	return row
}
