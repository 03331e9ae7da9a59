package entry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/travel-ledger/internal/domain/date"
)

// Document is the flat shape of an entry used by snapshots, the HTTP API
// and the storage backends. Withdrawal-only fields are omitted for expenses.
type Document struct {
	EntryID          string    `json:"entryId" bson:"_id"`
	TimestampCreated time.Time `json:"timestampCreated" bson:"timestampCreated"`
	Date             string    `json:"date" bson:"date"`
	CategoryID       string    `json:"categoryId" bson:"categoryId"`

	Description string `json:"description" bson:"description"`
	Country     string `json:"country" bson:"country"`
	PlaceName   string `json:"placeName" bson:"placeName"`

	Currency        string   `json:"currency" bson:"currency"`
	AmountOriginal  float64  `json:"amountOriginal" bson:"amountOriginal"`
	AmountILS       *float64 `json:"amountILS" bson:"amountILS"`
	PaymentMethodID string   `json:"paymentMethodId" bson:"paymentMethodId"`

	IsRefund   bool    `json:"isRefund" bson:"isRefund"`
	IsMultiday bool    `json:"isMultiday" bson:"isMultiday"`
	Duration   *int    `json:"duration" bson:"duration"`
	EndDate    *string `json:"endDate" bson:"endDate"`

	Notes            string `json:"notes" bson:"notes"`
	IsCashWithdrawal bool   `json:"isCashWithdrawal" bson:"isCashWithdrawal"`
	SyncStatus       string `json:"syncStatus" bson:"syncStatus"`

	CashWalletDerived string `json:"cashWalletDerived,omitempty" bson:"cashWalletDerived,omitempty"`

	WithdrawalSourceMethodID string   `json:"withdrawalSourceMethodId,omitempty" bson:"withdrawalSourceMethodId,omitempty"`
	WithdrawalCashWalletID   string   `json:"withdrawalCashWalletId,omitempty" bson:"withdrawalCashWalletId,omitempty"`
	CashAmount               *float64 `json:"cashAmount,omitempty" bson:"cashAmount,omitempty"`
	CashCurrency             string   `json:"cashCurrency,omitempty" bson:"cashCurrency,omitempty"`
	FeeAmount                *float64 `json:"feeAmount,omitempty" bson:"feeAmount,omitempty"`
	FeeCurrency              string   `json:"feeCurrency,omitempty" bson:"feeCurrency,omitempty"`
	FeeILS                   *float64 `json:"feeILS,omitempty" bson:"feeILS,omitempty"`
	TotalILS                 *float64 `json:"totalILS,omitempty" bson:"totalILS,omitempty"`
}

// ToDocument flattens the entry.
func (e *Entry) ToDocument() Document {
	doc := Document{
		EntryID:           e.EntryID,
		TimestampCreated:  e.TimestampCreated,
		Date:              e.Date.String(),
		CategoryID:        e.CategoryID,
		Description:       e.Description,
		Country:           e.Country,
		PlaceName:         e.PlaceName,
		Currency:          e.Currency,
		AmountOriginal:    e.AmountOriginal,
		AmountILS:         copyFloat(e.AmountILS),
		PaymentMethodID:   e.PaymentMethodID,
		IsRefund:          e.IsRefund,
		Notes:             e.Notes,
		IsCashWithdrawal:  e.IsCashWithdrawal(),
		SyncStatus:        string(e.SyncStatus),
		CashWalletDerived: e.CashWalletDerived,
	}

	if e.Span != nil {
		doc.IsMultiday = true
		if days, ok := e.Span.Duration(); ok {
			doc.Duration = &days
		}
		if end, ok := e.Span.EndDate(); ok {
			str := end.String()
			doc.EndDate = &str
		}
	}

	if w := e.Withdrawal; w != nil {
		cash, fee := w.CashAmount, w.FeeAmount
		doc.WithdrawalSourceMethodID = w.SourceMethodID
		doc.WithdrawalCashWalletID = w.CashWalletID
		doc.CashAmount = &cash
		doc.CashCurrency = w.CashCurrency
		doc.FeeAmount = &fee
		doc.FeeCurrency = w.FeeCurrency
		doc.FeeILS = copyFloat(w.FeeILS)
		doc.TotalILS = copyFloat(w.TotalILS)
	}

	return doc
}

// FromDocument rebuilds an entry from its flat shape. It only rejects
// documents it cannot represent: missing identity fields or unparsable
// dates. Stored values are kept as they are, including a duration and end
// date that disagree.
func FromDocument(doc Document) (*Entry, error) {
	if doc.EntryID == "" || doc.Date == "" || doc.CategoryID == "" {
		return nil, fmt.Errorf("%w: entryId, date and categoryId are required", ErrInvalidEntry)
	}
	day, err := date.Parse(doc.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	e := &Entry{
		EntryID:           doc.EntryID,
		TimestampCreated:  doc.TimestampCreated,
		Date:              day,
		CategoryID:        doc.CategoryID,
		Description:       doc.Description,
		Country:           doc.Country,
		PlaceName:         doc.PlaceName,
		Notes:             doc.Notes,
		AmountOriginal:    doc.AmountOriginal,
		Currency:          doc.Currency,
		AmountILS:         copyFloat(doc.AmountILS),
		PaymentMethodID:   doc.PaymentMethodID,
		CashWalletDerived: doc.CashWalletDerived,
		IsRefund:          doc.IsRefund,
		SyncStatus:        SyncStatus(doc.SyncStatus),
	}
	if e.SyncStatus == "" {
		e.SyncStatus = SyncStatusPending
	}

	if doc.IsMultiday {
		var end *date.Date
		if doc.EndDate != nil && *doc.EndDate != "" {
			parsed, err := date.Parse(*doc.EndDate)
			if err != nil {
				return nil, fmt.Errorf("%w: endDate: %w", ErrInvalidEntry, err)
			}
			end = &parsed
		}
		e.Span = restoreSpan(doc.Duration, end)
	}

	if doc.IsCashWithdrawal {
		e.Withdrawal = &Withdrawal{
			SourceMethodID: doc.WithdrawalSourceMethodID,
			CashWalletID:   doc.WithdrawalCashWalletID,
			CashAmount:     valueOrZero(doc.CashAmount),
			CashCurrency:   doc.CashCurrency,
			FeeAmount:      valueOrZero(doc.FeeAmount),
			FeeCurrency:    doc.FeeCurrency,
			FeeILS:         copyFloat(doc.FeeILS),
			TotalILS:       copyFloat(doc.TotalILS),
		}
	}

	return e, nil
}

// MarshalJSON writes the entry in its Document shape.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToDocument())
}

// UnmarshalJSON reads a Document and applies FromDocument.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	parsed, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*e = *parsed
	return nil
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
