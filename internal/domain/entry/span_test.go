package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travel-ledger/internal/domain/date"
)

func TestSpanFromDuration(t *testing.T) {
	start := date.MustParse("2024-05-01")

	t.Run("ThreeDays", func(t *testing.T) {
		s, err := SpanFromDuration(start, 3)
		require.NoError(t, err)

		days, ok := s.Duration()
		assert.True(t, ok)
		assert.Equal(t, 3, days)

		end, ok := s.EndDate()
		assert.True(t, ok)
		assert.Equal(t, date.MustParse("2024-05-03"), end)
		assert.Equal(t, 3, s.ProrationDays(start))
	})

	t.Run("ZeroRejected", func(t *testing.T) {
		_, err := SpanFromDuration(start, 0)
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})
}

func TestSpanFromEndDate(t *testing.T) {
	start := date.MustParse("2024-04-30")

	t.Run("AcrossMonthBoundary", func(t *testing.T) {
		s, err := SpanFromEndDate(start, date.MustParse("2024-05-02"))
		require.NoError(t, err)

		days, _ := s.Duration()
		assert.Equal(t, 3, days)
		assert.Equal(t, 3, s.ProrationDays(start))
	})

	t.Run("SameDay", func(t *testing.T) {
		s, err := SpanFromEndDate(start, start)
		require.NoError(t, err)
		days, _ := s.Duration()
		assert.Equal(t, 1, days)
	})

	t.Run("EndBeforeStartRejected", func(t *testing.T) {
		_, err := SpanFromEndDate(start, start.Add(-1))
		assert.ErrorIs(t, err, ErrInvalidSpan)
	})
}

func TestSpan_ConstructorsAgree(t *testing.T) {
	start := date.MustParse("2024-02-27")
	byDuration, err := SpanFromDuration(start, 4)
	require.NoError(t, err)
	end, _ := byDuration.EndDate()

	byEnd, err := SpanFromEndDate(start, end)
	require.NoError(t, err)
	assert.Equal(t, byDuration, byEnd)
}

func TestSpan_Restored(t *testing.T) {
	start := date.MustParse("2024-05-01")

	t.Run("DurationOnly", func(t *testing.T) {
		days := 2
		s := restoreSpan(&days, nil)
		end, ok := s.EffectiveEnd(start)
		assert.True(t, ok)
		assert.Equal(t, date.MustParse("2024-05-02"), end)
		assert.True(t, s.Covers(start, date.MustParse("2024-05-02")))
		assert.False(t, s.Covers(start, date.MustParse("2024-05-03")))
	})

	t.Run("EndDateWinsOverDuration", func(t *testing.T) {
		days := 2
		end := date.MustParse("2024-05-04")
		s := restoreSpan(&days, &end)
		effective, _ := s.EffectiveEnd(start)
		assert.Equal(t, end, effective)
		assert.Equal(t, 4, s.ProrationDays(start))
	})

	t.Run("Unresolvable", func(t *testing.T) {
		s := restoreSpan(nil, nil)
		_, ok := s.EffectiveEnd(start)
		assert.False(t, ok)
		assert.False(t, s.Covers(start, start))
		assert.Equal(t, 1, s.ProrationDays(start))
	})

	t.Run("EndBeforeStartProratesOverOneDay", func(t *testing.T) {
		end := start.Add(-3)
		s := restoreSpan(nil, &end)
		assert.Equal(t, 1, s.ProrationDays(start))
		assert.False(t, s.Covers(start, start))
	})
}
