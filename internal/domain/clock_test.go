package domain

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("23:30")
	require.NoError(t, err)
	assert.Equal(t, DefaultBedtime, c)

	c, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, MinutesPerDay, c)

	for _, bad := range []string{"", "7:30", "24:01", "12:60", "ab:cd", "+1:30", "12-30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "07:05", Clock(7*60+5).String())
	assert.Equal(t, "24:00", MinutesPerDay.String())
}

func TestRoundUpToFive(t *testing.T) {
	at := func(h, m, s int) time.Time { return time.Date(2025, 3, 1, h, m, s, 0, time.UTC) }
	cases := []struct {
		in   time.Time
		want string
	}{
		{at(19, 2, 0), "19:05"},
		{at(19, 5, 0), "19:05"},
		{at(19, 5, 45), "19:05"},
		{at(19, 56, 0), "20:00"},
		{at(16, 30, 0), "16:30"},
		{at(23, 58, 0), "24:00"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundUpToFive(tc.in).String(), "at %s", tc.in.Format("15:04:05"))
	}
}

func TestClockOn(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	day := time.Date(2025, 3, 1, 22, 10, 0, 0, loc)
	got := Clock(19*60 + 5).On(day)
	assert.Equal(t, time.Date(2025, 3, 1, 19, 5, 0, 0, loc), got)
}

func TestClockOn_DSTTransitionKeepsWallClock(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name string
		day  time.Time
	}{
		{"spring forward", time.Date(2025, 3, 9, 0, 0, 0, 0, ny)},
		{"fall back", time.Date(2025, 11, 2, 0, 0, 0, 0, ny)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, s := range []string{"00:00", "01:30", "03:15", "17:00", "23:55"} {
				c, err := ParseClock(s)
				require.NoError(t, err)
				got := c.On(tt.day)
				assert.Equal(t, c, ClockOf(got), "clock %s", s)
				assert.True(t, SameDay(got, tt.day, ny), "clock %s", s)
			}
		})
	}

	got := Clock(17 * 60).On(tests[0].day)
	assert.Equal(t, "2025-03-09 17:00:00 -0400 EDT", got.String())
}

func TestClockOn_MidnightRollsToNextDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := MinutesPerDay.On(time.Date(2025, 3, 8, 12, 0, 0, 0, ny))
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, ny), got)
}

func TestSameDay(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	a := time.Date(2025, 3, 1, 16, 0, 0, 0, time.UTC) // 01:00 on the 2nd in KST
	b := time.Date(2025, 3, 2, 10, 0, 0, 0, loc)
	assert.True(t, SameDay(a, b, loc))
	assert.False(t, SameDay(a, b, time.UTC))
}

func TestParsePackingPolicy(t *testing.T) {
	p, ok := ParsePackingPolicy("")
	assert.True(t, ok)
	assert.Equal(t, PolicySkipOversized, p)

	p, ok = ParsePackingPolicy("stop_at_first_overflow")
	assert.True(t, ok)
	assert.Equal(t, PolicyStopAtFirstOverflow, p)

	_, ok = ParsePackingPolicy("best_fit")
	assert.False(t, ok)
}
