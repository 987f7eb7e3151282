// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// DayKeyLayout is the calendar-day bucket key used by all analytics
// timeseries, always in UTC.
const DayKeyLayout = "2006-01-02"

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// UTCNowPtr returns a pointer to the current time in UTC
func UTCNowPtr() *time.Time {
	now := UTCNow()
	return &now
}

// UTCNowAdd returns the current UTC time plus the given duration
func UTCNowAdd(d time.Duration) time.Time {
	return UTCNow().Add(d)
}

// DayKey truncates t to its UTC calendar day key (YYYY-MM-DD)
func DayKey(t time.Time) string {
	return t.UTC().Format(DayKeyLayout)
}

// StartOfDayUTC returns midnight UTC of t's calendar day
func StartOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDayUTC returns the last representable instant of t's UTC calendar day
func EndOfDayUTC(t time.Time) time.Time {
	return StartOfDayUTC(t).Add(24*time.Hour - time.Nanosecond)
}

// TimeToUTC converts a time to UTC if it's not already
func TimeToUTC(t time.Time) time.Time {
	return t.UTC()
}
