package domain

import (
	"fmt"
	"time"
)

// Clock is a time of day expressed in minutes since midnight.
// 24:00 (1440) is representable so a bedtime of midnight can be expressed.
type Clock int

const (
	MinutesPerDay Clock = 24 * 60
	After17       Clock = 17 * 60
	// DefaultBedtime applies when a request omits its bedtime.
	DefaultBedtime Clock = 23*60 + 30
)

// ParseClock parses an "HH:mm" string. "24:00" is accepted, anything past it is not.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time %q: expected HH:mm", s)
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return Clock(h*60 + m), nil
}

// ClockOf returns the clock component of t in t's location, seconds dropped.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

// RoundUpToFive returns the clock of t rounded up to the next five-minute
// boundary. Seconds are ignored, so 19:02:40 becomes 19:05 and 19:05:30 stays 19:05.
func RoundUpToFive(t time.Time) Clock {
	c := ClockOf(t)
	if rem := c % 5; rem != 0 {
		c += 5 - rem
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On anchors the clock onto the calendar date of day as a wall-clock time in
// day's location. 24:00 is midnight of the following day.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	if c >= MinutesPerDay {
		return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).AddDate(0, 0, 1)
	}
	return time.Date(y, m, d, int(c)/60, int(c)%60, 0, 0, day.Location())
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
