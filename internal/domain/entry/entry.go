// Package entry models one recorded financial event: an expense, a refund
// or a cash withdrawal. An Entry is replaced as a whole on edit and never
// patched field by field.
package entry

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/travel-ledger/internal/domain/date"
)

// Common errors
var (
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrInvalidAmount = errors.New("amount must be a finite number")
)

// Kind tells the two entry variants apart.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindWithdrawal Kind = "withdrawal"
)

// SyncStatus is reserved for multi-device sync; entries are always pending.
type SyncStatus string

const SyncStatusPending SyncStatus = "pending"

// Entry is one ledger event. Withdrawal is set only for cash withdrawals,
// Span only for multi-day entries.
type Entry struct {
	EntryID          string
	TimestampCreated time.Time // set once at creation, kept on every edit
	Date             date.Date // start day for multi-day entries
	CategoryID       string

	Description string
	Country     string
	PlaceName   string
	Notes       string

	AmountOriginal float64
	Currency       string
	// AmountILS is the base currency value frozen at save time. It is nil
	// when no rate existed for Currency, and it is not recomputed when the
	// currency table changes afterwards.
	AmountILS *float64

	PaymentMethodID   string
	CashWalletDerived string

	IsRefund   bool
	Span       *Span
	SyncStatus SyncStatus

	Withdrawal *Withdrawal
}

// Withdrawal holds the fields only meaningful for cash withdrawals.
type Withdrawal struct {
	SourceMethodID string
	CashWalletID   string
	CashAmount     float64
	CashCurrency   string
	FeeAmount      float64
	FeeCurrency    string
	FeeILS         *float64
	TotalILS       *float64
}

// Kind returns the entry variant.
func (e *Entry) Kind() Kind {
	if e.Withdrawal != nil {
		return KindWithdrawal
	}
	return KindExpense
}

// IsCashWithdrawal reports whether e is a withdrawal.
func (e *Entry) IsCashWithdrawal() bool { return e.Withdrawal != nil }

// IsMultiday reports whether e spans several days.
func (e *Entry) IsMultiday() bool { return e.Span != nil }

// Validate checks the rules every stored entry must satisfy.
func (e *Entry) Validate() error {
	if e.EntryID == "" {
		return fmt.Errorf("%w: entryId is required", ErrInvalidEntry)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	if e.CategoryID == "" {
		return fmt.Errorf("%w: categoryId is required", ErrInvalidEntry)
	}
	if !isFinite(e.AmountOriginal) {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrInvalidAmount)
	}
	if e.AmountILS != nil && !isFinite(*e.AmountILS) {
		return fmt.Errorf("%w: amountILS: %w", ErrInvalidEntry, ErrInvalidAmount)
	}
	if e.Span != nil {
		if e.Span.days < 0 {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrInvalidSpan)
		}
		if end, ok := e.Span.EndDate(); ok && end.Before(e.Date) {
			return fmt.Errorf("%w: %w", ErrInvalidEntry, ErrInvalidSpan)
		}
	}
	if w := e.Withdrawal; w != nil {
		if !isFinite(w.CashAmount) || !isFinite(w.FeeAmount) {
			return fmt.Errorf("%w: withdrawal: %w", ErrInvalidEntry, ErrInvalidAmount)
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
