package date

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("Canonical", func(t *testing.T) {
		d, err := Parse("2024-05-01")
		require.NoError(t, err)
		assert.Equal(t, New(2024, time.May, 1), d)
		assert.Equal(t, "2024-05-01", d.String())
	})

	t.Run("Lenient", func(t *testing.T) {
		d, err := Parse("2024-5-1")
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", d.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Parse("01/05/2024")
		assert.Error(t, err)
		_, err = Parse("")
		assert.Error(t, err)
	})
}

func TestNew_Normalizes(t *testing.T) {
	assert.Equal(t, MustParse("2024-05-01"), New(2024, time.April, 31))
	assert.Equal(t, MustParse("2024-03-01"), New(2024, time.February, 30))
}

func TestArithmetic(t *testing.T) {
	start := MustParse("2024-04-30")

	assert.Equal(t, MustParse("2024-05-02"), start.Add(2))
	assert.Equal(t, MustParse("2024-04-29"), start.Add(-1))
	assert.Equal(t, 2, start.Add(2).DaysSince(start))
	assert.Equal(t, -1, start.Add(-1).DaysSince(start))
	assert.True(t, start.Before(start.Add(1)))
	assert.True(t, start.Add(1).After(start))
	assert.False(t, start.After(start))

	assert.True(t, start.Between(start, start))
	assert.True(t, start.Add(1).Between(start, start.Add(2)))
	assert.False(t, start.Add(3).Between(start, start.Add(2)))
}

func TestDaysSince_AcrossDST(t *testing.T) {
	// normalized to UTC midnight, so a DST switch does not shorten a day
	assert.Equal(t, 1, MustParse("2024-03-31").DaysSince(MustParse("2024-03-30")))
	assert.Equal(t, 366, MustParse("2025-01-01").DaysSince(MustParse("2024-01-01")))
}

func TestJSON(t *testing.T) {
	type wrapper struct {
		Day Date `json:"day"`
	}

	raw, err := json.Marshal(wrapper{Day: MustParse("2024-05-01")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-05-01"}`, string(raw))

	var back wrapper
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, MustParse("2024-05-01"), back.Day)

	assert.Error(t, json.Unmarshal([]byte(`{"day":"nope"}`), &back))
	assert.Error(t, json.Unmarshal([]byte(`{"day":12}`), &back))
}
