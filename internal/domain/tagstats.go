package domain

import "time"

// TagStat is the running average of reported completion minutes for one
// tag of one user.
type TagStat struct {
	UserID           string
	Tag              string
	SampleCount      int
	AvgActualMinutes float64
	UpdatedAt        time.Time
}
