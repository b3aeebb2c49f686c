package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayWindow(t *testing.T) {
	loc, err := time.LoadLocation("America/Argentina/Cordoba")
	require.NoError(t, err)

	// 2024-03-15 10:30 UTC is 07:30 local (UTC-3).
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	w := Today(now, loc)

	assert.Equal(t, 2024, w.Start.Year())
	assert.Equal(t, time.March, w.Start.Month())
	assert.Equal(t, 15, w.Start.Day())
	assert.Equal(t, 0, w.Start.Hour())
	assert.Equal(t, 0, w.Start.Minute())
	assert.Equal(t, 0, w.Start.Second())
	assert.Equal(t, 0, w.Start.Nanosecond())
	assert.Equal(t, loc, w.Start.Location())

	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestTodayWindowCrossesDateLine(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 23:00 UTC on the 15th is already the 16th in Tokyo.
	now := time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)
	w := Today(now, loc)

	assert.Equal(t, 16, w.Start.Day())
	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
}

func TestTodayWindowDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2024-03-10 is the spring-forward date in the US. The window is still
	// exactly 24h of absolute time, so it reaches 01:00 of the next day.
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, loc)
	w := Today(now, loc)

	assert.Equal(t, 24*time.Hour, w.End.Sub(w.Start))
	assert.Equal(t, 11, w.End.In(loc).Day())
	assert.Equal(t, 1, w.End.In(loc).Hour())
}

func TestOverlaps(t *testing.T) {
	loc := time.UTC
	w := Today(time.Date(2024, 3, 15, 12, 0, 0, 0, loc), loc)

	day := func(h, m int) time.Time {
		return time.Date(2024, 3, 15, h, m, 0, 0, loc)
	}

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{"inside", day(9, 0), day(10, 30), true},
		{"spans whole day", w.Start.Add(-time.Hour), w.End.Add(time.Hour), true},
		{"starts before ends inside", w.Start.Add(-time.Hour), day(1, 0), true},
		{"starts inside ends after", day(23, 0), w.End.Add(time.Hour), true},
		{"ends exactly at start", w.Start.Add(-time.Hour), w.Start, false},
		{"starts exactly at end", w.End, w.End.Add(time.Hour), false},
		{"ends one second past start", w.Start.Add(-time.Hour), w.Start.Add(time.Second), true},
		{"starts one second before end", w.End.Add(-time.Second), w.End.Add(time.Hour), true},
		{"entirely before", w.Start.Add(-3 * time.Hour), w.Start.Add(-2 * time.Hour), false},
		{"entirely after", w.End.Add(2 * time.Hour), w.End.Add(3 * time.Hour), false},
		{"zero duration inside", day(12, 0), day(12, 0), true},
		{"zero duration at window start", w.Start, w.Start, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.Overlaps(tt.start, tt.end))
		})
	}
}
