// Package tz resolves UTC instants to the local display timezone,
// accounting for the UK daylight-saving window. The window runs from the
// last Sunday of March at 01:00 UTC (inclusive) to the last Sunday of
// October at 01:00 UTC (exclusive); inside it the local offset is +1h.
package tz

import "time"

// Zone labels for the two halves of the year.
const (
	zoneStandard = "GMT"
	zoneDaylight = "BST"
)

// IsDaylightSaving reports whether the given instant falls inside the
// daylight-saving window of its own year. The window is recomputed per
// call because the boundary Sundays shift year to year.
func IsDaylightSaving(t time.Time) bool {
	t = t.UTC()
	start := daylightStart(t.Year())
	end := daylightEnd(t.Year())
	return !t.Before(start) && t.Before(end)
}

// ToLocal converts a UTC instant to the local display time and returns
// it together with the zone label ("BST" inside the daylight window,
// "GMT" outside).
func ToLocal(t time.Time) (time.Time, string) {
	t = t.UTC()
	if IsDaylightSaving(t) {
		return t.Add(time.Hour), zoneDaylight
	}
	return t, zoneStandard
}

// ToUTC converts a local display instant back to UTC. The daylight test
// is applied against the local instant itself, which is close enough for
// the hour-granular sweep windows this package serves.
func ToUTC(local time.Time) time.Time {
	if IsDaylightSaving(local) {
		return local.Add(-time.Hour)
	}
	return local
}

// DaylightWindow returns the [start, end) daylight-saving boundaries for
// the given year.
func DaylightWindow(year int) (time.Time, time.Time) {
	return daylightStart(year), daylightEnd(year)
}

func daylightStart(year int) time.Time {
	return lastSunday(year, time.March).Add(time.Hour)
}

func daylightEnd(year int) time.Time {
	return lastSunday(year, time.October).Add(time.Hour)
}

// lastSunday returns midnight UTC of the last Sunday of the given month,
// found by taking the last calendar day and walking backward until the
// weekday is Sunday.
func lastSunday(year int, month time.Month) time.Time {
	// Day 0 of the following month is the last day of this one.
	day := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for day.Weekday() != time.Sunday {
		day = day.AddDate(0, 0, -1)
	}
	return day
}
