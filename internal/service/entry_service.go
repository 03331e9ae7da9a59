package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/travel-ledger/internal/domain/catalog"
	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
)

// SaveEntryRequest is the user input for creating or replacing an entry.
// An empty EntryID creates a new entry.
type SaveEntryRequest struct {
	EntryID    string    `json:"entryId"`
	Date       date.Date `json:"date"`
	CategoryID string    `json:"categoryId"`

	Description string `json:"description"`
	Country     string `json:"country"`
	PlaceName   string `json:"placeName"`
	Notes       string `json:"notes"`

	AmountOriginal  float64 `json:"amountOriginal"`
	Currency        string  `json:"currency"`
	PaymentMethodID string  `json:"paymentMethodId"`
	IsRefund        bool    `json:"isRefund"`

	// When both Duration and EndDate are given they must describe the
	// same span.
	IsMultiday bool       `json:"isMultiday"`
	Duration   *int       `json:"duration"`
	EndDate    *date.Date `json:"endDate"`

	WithdrawalSourceMethodID string  `json:"withdrawalSourceMethodId"`
	WithdrawalCashWalletID   string  `json:"withdrawalCashWalletId"`
	CashAmount               float64 `json:"cashAmount"`
	CashCurrency             string  `json:"cashCurrency"`
	FeeAmount                float64 `json:"feeAmount"`
	FeeCurrency              string  `json:"feeCurrency"`
}

// EntryServiceImpl implements the EntryService interface
type EntryServiceImpl struct {
	entryRepo entry.Repository
	currency  CurrencyService
	logger    *slog.Logger
	now       func() time.Time
}

// NewEntryService creates a new entry service
func NewEntryService(logger *slog.Logger, entryRepo entry.Repository, currency CurrencyService) *EntryServiceImpl {
	return &EntryServiceImpl{
		entryRepo: entryRepo,
		currency:  currency,
		logger:    logger,
		now:       time.Now,
	}
}

// Save builds an entry from req and stores it, replacing any entry with the
// same id. Base currency amounts are computed with the current rates and
// frozen on the stored entry.
func (s *EntryServiceImpl) Save(ctx context.Context, req *SaveEntryRequest) (*entry.Entry, error) {
	category, ok := catalog.CategoryByID(req.CategoryID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, req.CategoryID)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", entry.ErrInvalidEntry)
	}
	if math.IsNaN(req.AmountOriginal) || math.IsInf(req.AmountOriginal, 0) {
		return nil, fmt.Errorf("%w: %w", entry.ErrInvalidEntry, entry.ErrInvalidAmount)
	}

	e := &entry.Entry{
		EntryID:         req.EntryID,
		Date:            req.Date,
		CategoryID:      category.ID,
		Description:     req.Description,
		Country:         req.Country,
		PlaceName:       req.PlaceName,
		Notes:           req.Notes,
		AmountOriginal:  req.AmountOriginal,
		Currency:        normalizeCode(req.Currency),
		PaymentMethodID: req.PaymentMethodID,
		IsRefund:        req.IsRefund,
		SyncStatus:      entry.SyncStatusPending,
	}

	if err := s.stampCreation(ctx, e); err != nil {
		return nil, err
	}

	e.AmountILS = s.toBase(e.AmountOriginal, e.Currency)

	if e.PaymentMethodID == catalog.CashPaymentMethodID {
		if wallet, ok := catalog.CashWalletFor(e.Currency); ok {
			e.CashWalletDerived = wallet
		}
	}

	if req.IsMultiday {
		span, err := buildSpan(e.Date, req.Duration, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", entry.ErrInvalidEntry, err)
		}
		e.Span = span
	}

	if category.Type == catalog.CategoryTypeWithdrawal {
		e.Withdrawal = s.buildWithdrawal(req, e.AmountILS)
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.entryRepo.Put(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("Entry saved",
		"entry_id", e.EntryID,
		"category_id", e.CategoryID,
		"kind", string(e.Kind()),
	)
	return e, nil
}

// stampCreation assigns a new id to fresh entries and carries the creation
// time over from the stored entry on edit. New stamps are cut to the
// millisecond, the finest precision every backend stores.
func (s *EntryServiceImpl) stampCreation(ctx context.Context, e *entry.Entry) error {
	now := s.now().UTC().Truncate(time.Millisecond)
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
		e.TimestampCreated = now
		return nil
	}

	existing, err := s.entryRepo.Get(ctx, e.EntryID)
	switch {
	case err == nil:
		e.TimestampCreated = existing.TimestampCreated
	case errors.Is(err, entry.ErrEntryNotFound{}):
		e.TimestampCreated = now
	default:
		return err
	}
	return nil
}

func (s *EntryServiceImpl) buildWithdrawal(req *SaveEntryRequest, amountILS *float64) *entry.Withdrawal {
	w := &entry.Withdrawal{
		SourceMethodID: req.WithdrawalSourceMethodID,
		CashWalletID:   req.WithdrawalCashWalletID,
		CashAmount:     req.CashAmount,
		CashCurrency:   normalizeCode(req.CashCurrency),
		FeeAmount:      req.FeeAmount,
		FeeCurrency:    normalizeCode(req.FeeCurrency),
	}
	if w.CashWalletID == "" {
		if wallet, ok := catalog.CashWalletFor(w.CashCurrency); ok {
			w.CashWalletID = wallet
		}
	}
	w.FeeILS = s.toBase(w.FeeAmount, w.FeeCurrency)

	var total float64
	if amountILS != nil {
		total += *amountILS
	}
	if w.FeeILS != nil {
		total += *w.FeeILS
	}
	w.TotalILS = &total
	return w
}

func (s *EntryServiceImpl) toBase(amount float64, code string) *float64 {
	v, ok := s.currency.ToBase(amount, code)
	if !ok {
		return nil
	}
	return &v
}

func buildSpan(start date.Date, duration *int, end *date.Date) (*entry.Span, error) {
	switch {
	case end != nil && !end.IsZero():
		span, err := entry.SpanFromEndDate(start, *end)
		if err != nil {
			return nil, err
		}
		if days, _ := span.Duration(); duration != nil && *duration != days {
			return nil, fmt.Errorf("%w: duration %d does not match end date %s", entry.ErrInvalidSpan, *duration, end)
		}
		return span, nil
	case duration != nil:
		return entry.SpanFromDuration(start, *duration)
	default:
		return entry.SpanFromDuration(start, 1)
	}
}

// Get returns the stored entry with the given id.
func (s *EntryServiceImpl) Get(ctx context.Context, entryID string) (*entry.Entry, error) {
	return s.entryRepo.Get(ctx, entryID)
}

// Delete removes an entry. Unknown ids are ignored.
func (s *EntryServiceImpl) Delete(ctx context.Context, entryID string) error {
	if err := s.entryRepo.Delete(ctx, entryID); err != nil {
		return err
	}
	s.logger.Info("Entry deleted", "entry_id", entryID)
	return nil
}

// ListRecent returns the newest entries first.
func (s *EntryServiceImpl) ListRecent(ctx context.Context, limit int, includeWithdrawals bool) ([]*entry.Entry, error) {
	return s.entryRepo.ListRecent(ctx, limit, entry.ListOptions{IncludeWithdrawals: includeWithdrawals})
}
