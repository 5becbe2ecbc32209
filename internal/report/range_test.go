package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/desk/internal/model"
)

func TestResolveRange(t *testing.T) {
	fallback := days("2023-12-25", "2023-12-31")

	tests := []struct {
		name       string
		start, end string
		want       Range
	}{
		{"ordered pair", "2024-01-01", "2024-01-07", days("2024-01-01", "2024-01-07")},
		{"unordered pair is swapped", "2024-01-07", "2024-01-01", days("2024-01-01", "2024-01-07")},
		{"single start", "2024-02-29", "", days("2024-02-29", "2024-02-29")},
		{"single end", "", "2024-03-01", days("2024-03-01", "2024-03-01")},
		{"garbage end uses start", "2024-01-05", "tomorrow", days("2024-01-05", "2024-01-05")},
		{"nothing usable", "", "not-a-date", fallback},
		{"invalid calendar date", "2024-02-30", "", fallback},
		{"whitespace tolerated", " 2024-01-02 ", "2024-01-03", days("2024-01-02", "2024-01-03")},
		{"full leap year kept", "2024-01-01", "2024-12-31", days("2024-01-01", "2024-12-31")},
		{"long span clamped", "2024-01-01", "2025-06-30", days("2024-01-01", "2024-12-31")},
		{"extreme span clamped", "9999-12-31", "0001-01-01", days("0001-01-01", "0002-01-01")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveRange(tt.start, tt.end, fallback))
		})
	}
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, days("2024-03-04", "2024-03-10"), DefaultRange(now, 7, time.UTC))
	assert.Equal(t, days("2024-03-10", "2024-03-10"), DefaultRange(now, 0, time.UTC))

	// 02:00 UTC on the 11th is still the 10th in EST.
	est := time.FixedZone("EST", -5*3600)
	late := time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, days("2024-03-10", "2024-03-10"), DefaultRange(late, 1, est))
}

func TestRange_Window(t *testing.T) {
	from, to := days("2024-03-01", "2024-03-05").Window(time.UTC)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC), to)
}

func TestRange_Days(t *testing.T) {
	assert.Equal(t, 1, days("2024-01-01", "2024-01-01").Days())
	assert.Equal(t, 366, days("2024-01-01", "2024-12-31").Days())
	assert.Equal(t, 0, days("2024-01-02", "2024-01-01").Days())
	assert.Equal(t, 3652059, days("0001-01-01", "9999-12-31").Days())
}

func TestRange_Clamp(t *testing.T) {
	r := days("2023-03-01", "2024-03-31")

	assert.Equal(t, days("2023-03-01", "2023-03-07"), r.Clamp(7))
	assert.Equal(t, days("2023-03-01", "2024-02-29"), r.Clamp(MaxDays))
	assert.Equal(t, r, r.Clamp(1000))
	assert.Equal(t, r, r.Clamp(0))
}

func TestDay(t *testing.T) {
	d, err := ParseDay("2024-02-28")
	require.NoError(t, err)

	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2024-02-26", d.Monday().String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))
	assert.False(t, d.IsZero())
	assert.True(t, Day{}.IsZero())

	var parsed Day
	require.NoError(t, parsed.UnmarshalText([]byte("2024-01-01")))
	assert.Equal(t, time.Monday, parsed.Weekday())
	assert.Error(t, parsed.UnmarshalText([]byte("01/01/2024")))
}

func TestParsePeriodAndKind(t *testing.T) {
	p, err := ParsePeriod("WEEKLY")
	require.NoError(t, err)
	assert.Equal(t, Weekly, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, Daily, p)

	_, err = ParsePeriod("monthly")
	assert.True(t, model.IsValidation(err))

	for in, want := range map[string]Kind{
		"":          Both,
		"both":      Both,
		"check-ins": CheckIns,
		"CheckOut":  CheckOuts,
		"checkouts": CheckOuts,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err = ParseKind("returns")
	assert.True(t, model.IsValidation(err))
}
