package stats

import "time"

// currentStreak walks backward from today and counts consecutive qualifying
// days. An empty day ends the streak.
func currentStreak(b *buckets, today time.Time) int {
	day := startOfDay(today, b.loc)
	streak := 0
	for b.day(day).qualifies() {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak scans days in order and returns the longest run of
// qualifying days.
func longestStreak(b *buckets, days []time.Time) int {
	longest, run := 0, 0
	for _, d := range days {
		if b.day(d).qualifies() {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	return longest
}
