package service

import (
	"time"

	"github.com/alexanderramin/rebound/internal/domain"
)

// Settings carries the user-facing defaults shared by the services.
type Settings struct {
	Location       *time.Location
	DefaultBedtime domain.Clock
	Policy         domain.PackingPolicy
	Now            func() time.Time
}

func DefaultSettings() Settings {
	return Settings{
		Location:       time.UTC,
		DefaultBedtime: domain.DefaultBedtime,
		Policy:         domain.PolicySkipOversized,
		Now:            time.Now,
	}
}

func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Location == nil {
		s.Location = d.Location
	}
	if s.DefaultBedtime == 0 {
		s.DefaultBedtime = d.DefaultBedtime
	}
	if s.Policy == "" {
		s.Policy = d.Policy
	}
	if s.Now == nil {
		s.Now = d.Now
	}
	return s
}

// now resolves the request override or the service clock, in the user's zone.
func (s Settings) now(override *time.Time) time.Time {
	if override != nil {
		return override.In(s.Location)
	}
	return s.Now().In(s.Location)
}

// dayBounds returns [midnight, next midnight) of date's calendar day in the user's zone.
func (s Settings) dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, s.Location)
	return start, start.AddDate(0, 0, 1)
}
