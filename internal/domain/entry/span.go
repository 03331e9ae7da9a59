package entry

import (
	"errors"
	"fmt"

	"github.com/travel-ledger/internal/domain/date"
)

// ErrInvalidSpan reports a multi-day span that cannot exist.
var ErrInvalidSpan = errors.New("invalid multi-day span")

// Span describes how many days a multi-day entry covers, starting on the
// entry date. Build it with SpanFromDuration or SpanFromEndDate: both keep
// the day count and the end date consistent with each other.
type Span struct {
	days   int // inclusive day count, 0 when unknown
	end    date.Date
	hasEnd bool
}

// SpanFromDuration builds a span covering days consecutive days from start.
func SpanFromDuration(start date.Date, days int) (*Span, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: duration %d must be at least 1", ErrInvalidSpan, days)
	}
	return &Span{days: days, end: start.Add(days - 1), hasEnd: true}, nil
}

// SpanFromEndDate builds a span running from start to end, both included.
func SpanFromEndDate(start, end date.Date) (*Span, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidSpan, end, start)
	}
	return &Span{days: end.DaysSince(start) + 1, end: end, hasEnd: true}, nil
}

// restoreSpan rebuilds a span from stored fields without reconciling them,
// so that whatever was persisted reads back unchanged.
func restoreSpan(days *int, end *date.Date) *Span {
	s := &Span{}
	if days != nil {
		s.days = *days
	}
	if end != nil {
		s.end, s.hasEnd = *end, true
	}
	return s
}

// Duration returns the stored inclusive day count.
func (s *Span) Duration() (int, bool) {
	return s.days, s.days > 0
}

// EndDate returns the stored end date.
func (s *Span) EndDate() (date.Date, bool) {
	return s.end, s.hasEnd
}

// EffectiveEnd is the end date when known, otherwise start + duration - 1.
func (s *Span) EffectiveEnd(start date.Date) (date.Date, bool) {
	if s.hasEnd {
		return s.end, true
	}
	if s.days > 0 {
		return start.Add(s.days - 1), true
	}
	return date.Date{}, false
}

// ProrationDays is the number of equal shares the entry amount is split
// into: the inclusive day count from start to the effective end, at least 1.
func (s *Span) ProrationDays(start date.Date) int {
	end, ok := s.EffectiveEnd(start)
	if !ok {
		return 1
	}
	return max(1, end.DaysSince(start)+1)
}

// Covers reports whether day falls within [start, effective end].
func (s *Span) Covers(start, day date.Date) bool {
	end, ok := s.EffectiveEnd(start)
	if !ok {
		return false
	}
	return day.Between(start, end)
}
