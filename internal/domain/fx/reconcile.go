package fx

import (
	"math"
	"time"
)

// Threshold is the relative difference at or above which a rate counts as
// changed.
const Threshold = 0.003

// Change is a rate the external source disagrees with. Old is nil when
// the table had no rate for Code.
type Change struct {
	Code string   `json:"code"`
	Old  *float64 `json:"old"`
	New  float64  `json:"new"`
}

// Reconciliation is the outcome of one check against the rate source.
// Err is set when the source could not be read, in which case Changes is
// empty, or when the check itself could not be recorded. The table is never
// modified by a check.
type Reconciliation struct {
	Changes   []Change  `json:"changes"`
	Err       error     `json:"-"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Reconcile compares the table against external rates, expressed as units
// of each currency per one unit of the base currency. Only tracked codes
// are considered, the base is skipped, and codes the source omits or
// reports with a non-positive rate are ignored. The table is not modified.
func (t *Table) Reconcile(tracked []string, external map[string]float64) []Change {
	var changes []Change
	for _, code := range tracked {
		if code == t.Base {
			continue
		}
		ext, ok := external[code]
		if !ok || !validRate(ext) {
			continue
		}
		candidate := 1 / ext

		old, has := t.RatesToBase[code]
		if has && validRate(old) {
			if math.Abs(candidate-old)/old < Threshold {
				continue
			}
			prev := old
			changes = append(changes, Change{Code: code, Old: &prev, New: candidate})
			continue
		}
		changes = append(changes, Change{Code: code, New: candidate})
	}
	return changes
}

// Apply returns a copy of t with every change applied and UpdatedAt set to
// now. Changes for the base currency or with invalid rates are ignored.
func (t *Table) Apply(changes []Change, now time.Time) *Table {
	c := t.Clone()
	for _, ch := range changes {
		if ch.Code == c.Base || !validRate(ch.New) {
			continue
		}
		c.RatesToBase[ch.Code] = ch.New
	}
	c.UpdatedAt = &now
	return c
}
