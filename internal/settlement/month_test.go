package settlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2025-10")
	require.NoError(t, err)
	assert.Equal(t, 2025, m.Year)
	assert.Equal(t, time.October, m.Month)
	assert.Equal(t, time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), m.End())
	assert.Equal(t, "2025-10", m.String())
}

func TestParseMonthRejectsBadTokens(t *testing.T) {
	for _, token := range []string{"", "2025", "2025-13", "2025-10-01", "oct-2025"} {
		_, err := ParseMonth(token)
		assert.ErrorIs(t, err, ErrInvalidMonth, "token %q", token)
	}
}

func TestMonthOrdering(t *testing.T) {
	oct, _ := ParseMonth("2025-10")
	nov, _ := ParseMonth("2025-11")
	jan, _ := ParseMonth("2026-01")

	assert.True(t, oct.Before(nov))
	assert.True(t, nov.Before(jan))
	assert.False(t, nov.Before(oct))
	assert.True(t, oct.Equal(MonthOf(time.Date(2025, 10, 16, 23, 59, 0, 0, time.UTC))))
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 30, DaysBetween(start, end))
}

func TestDateOnlyDropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2025, 10, 17, 2, 30, 0, 0, loc) // 2025-10-16T18:30Z
	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestOverlapDays(t *testing.T) {
	oct, _ := ParseMonth("2025-10")
	nov, _ := ParseMonth("2025-11")
	start := time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 11, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 16, OverlapDays(start, end, oct.Start(), oct.End()))
	assert.Equal(t, 14, OverlapDays(start, end, nov.Start(), nov.End()))

	dec, _ := ParseMonth("2025-12")
	assert.Equal(t, 0, OverlapDays(start, end, dec.Start(), dec.End()))
}
