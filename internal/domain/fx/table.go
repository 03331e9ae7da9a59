// Package fx holds the currency table used to convert entry amounts into
// the base currency, and the math used to reconcile it with an external
// rate source.
package fx

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"time"

	"github.com/Rhymond/go-money"
)

// Base is the reporting currency. Its rate is always 1.
const Base = "ILS"

// Common errors
var (
	ErrInvalidRate       = errors.New("rate must be a finite positive number")
	ErrBaseRateImmutable = errors.New("base currency rate cannot be changed")
	ErrUnknownCurrency   = errors.New("unknown currency code")
)

// Table maps currency codes to the value of one unit in the base currency.
type Table struct {
	Base        string             `json:"base"`
	RatesToBase map[string]float64 `json:"ratesToILS"`
	UpdatedAt   *time.Time         `json:"updatedAt"`
}

var defaultRates = map[string]float64{
	"ILS": 1,
	"USD": 3.222795,
	"EUR": 3.783122,
	"THB": 0.1015732826,
	"NPR": 0.0221813345,
	"ARS": 0.0022386907,
	"BRL": 0.5939565,
	"CLP": 0.0034989218,
	"PEN": 0.8916722229,
	"COP": 0.0008442975,
	"BOB": 0.4647277565,
	"UYU": 0.0819357605,
	"PYG": 0.0004778981,
	"MXN": 0.1780734199,
	"CRC": 0.0064192632,
}

// DefaultTable returns a fresh copy of the built-in rate set.
func DefaultTable() *Table {
	return &Table{Base: Base, RatesToBase: maps.Clone(defaultRates)}
}

// Decode parses a stored table. It reports ok=false for values that do not
// hold a rate mapping, such as JSON null or a table from an unrelated
// format.
func Decode(raw json.RawMessage) (*Table, bool, error) {
	if len(raw) == 0 {
		return nil, false, nil
	}
	var t Table
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false, fmt.Errorf("failed to decode currency table: %w", err)
	}
	if t.RatesToBase == nil {
		return nil, false, nil
	}
	t.normalize()
	return &t, true, nil
}

// Encode is the stored form of the table.
func (t *Table) Encode() (json.RawMessage, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode currency table: %w", err)
	}
	return raw, nil
}

func (t *Table) normalize() {
	if t.Base == "" {
		t.Base = Base
	}
	t.RatesToBase[t.Base] = 1
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{Base: t.Base, RatesToBase: maps.Clone(t.RatesToBase)}
	if c.RatesToBase == nil {
		c.RatesToBase = map[string]float64{}
	}
	if t.UpdatedAt != nil {
		at := *t.UpdatedAt
		c.UpdatedAt = &at
	}
	return c
}

// Rate returns the rate stored for code.
func (t *Table) Rate(code string) (float64, bool) {
	rate, ok := t.RatesToBase[code]
	return rate, ok
}

// ToBase converts amount of code into the base currency. It reports false
// when amount is not finite or the table has no rate for code. The result
// is not rounded.
func (t *Table) ToBase(amount float64, code string) (float64, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, false
	}
	rate, ok := t.RatesToBase[code]
	if !ok {
		return 0, false
	}
	return amount * rate, true
}

// WithRate returns a copy of t with code set to rate and UpdatedAt set to
// now. t itself is never modified.
func (t *Table) WithRate(code string, rate float64, now time.Time) (*Table, error) {
	if code == t.Base {
		return nil, ErrBaseRateImmutable
	}
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	if !validRate(rate) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRate, rate)
	}

	c := t.Clone()
	c.RatesToBase[code] = rate
	c.UpdatedAt = &now
	return c, nil
}

// ValidateCode accepts only ISO-4217 codes.
func ValidateCode(code string) error {
	if len(code) != 3 || money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return nil
}

func validRate(rate float64) bool {
	return !math.IsNaN(rate) && !math.IsInf(rate, 0) && rate > 0
}
