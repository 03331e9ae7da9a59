// Package aggregate computes how much was spent on a calendar day. Amounts
// are summed unrounded in the base currency and rounded to cents once at
// the end.
package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/travel-ledger/internal/domain/date"
	"github.com/travel-ledger/internal/domain/entry"
)

// Contribution is the unrounded amount e adds to day.
//
// A withdrawal adds its fee on its own date and never its cash amount. An
// expense without a base amount adds nothing. A multi-day expense with a
// known duration is split evenly over every day of its span, whatever the
// calendar lengths involved. Refunds count negatively.
func Contribution(e *entry.Entry, day date.Date) float64 {
	if w := e.Withdrawal; w != nil {
		if e.Date != day || w.FeeILS == nil {
			return 0
		}
		return *w.FeeILS
	}

	if e.AmountILS == nil {
		return 0
	}
	amount := *e.AmountILS
	if e.IsRefund {
		amount = -amount
	}

	if span := e.Span; span != nil {
		if _, ok := span.Duration(); ok {
			if _, ok := span.EffectiveEnd(e.Date); ok {
				if !span.Covers(e.Date, day) {
					return 0
				}
				return amount / float64(span.ProrationDays(e.Date))
			}
		}
	}

	if e.Date != day {
		return 0
	}
	return amount
}

// SpendForDay is the net base currency amount attributable to day,
// rounded half away from zero to two decimals.
func SpendForDay(entries []*entry.Entry, day date.Date) float64 {
	var sum float64
	for _, e := range entries {
		if e == nil {
			continue
		}
		sum += Contribution(e, day)
	}
	return Round(sum)
}

// Round rounds to cents, half away from zero.
func Round(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
