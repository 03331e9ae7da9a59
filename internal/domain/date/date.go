// Package date provides a calendar day value with no time-of-day component.
// All comparisons happen on normalized midnight UTC instants, so a day read
// from a form, a snapshot or a database row always compares equal to itself.
package date

import (
	"encoding/json"
	"fmt"
	"time"
)

const readFormat = "2006-1-2" // lenient: accepts 2024-5-1 as well as 2024-05-01

// Format is the ISO-8601 layout used to write dates.
const Format = "2006-01-02"

// Date is a calendar day.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date, so New(2024, 4, 31) is 2024-05-01.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.Time().Date()
	return d
}

// Today returns the current local day.
func Today() Date { return New(time.Now().Date()) }

// Parse reads a day in YYYY-MM-DD form.
func Parse(str string) (Date, error) {
	on, err := time.Parse(readFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q want format %q: %w", str, Format, err)
	}
	return New(on.Date()), nil
}

// MustParse is like Parse but panics on error.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// Time returns midnight UTC of the day.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Add returns the day i days after d (before if i is negative).
func (d Date) Add(i int) Date { return New(d.y, d.m, d.d+i) }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.Time().Before(x.Time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.Time().After(x.Time()) }

// Between reports whether d lies in [from, to], bounds included.
func (d Date) Between(from, to Date) bool { return !d.Before(from) && !d.After(to) }

// DaysSince returns the number of days from x to d.
func (d Date) DaysSince(x Date) int {
	return int(d.Time().Sub(x.Time()).Hours() / 24)
}

// String formats the day as YYYY-MM-DD.
func (d Date) String() string { return d.Time().Format(Format) }

// MarshalJSON writes the day as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON reads the day from a JSON string.
func (d *Date) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	parsed, err := Parse(str)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = Date{}
var _ json.Unmarshaler = (*Date)(nil)
