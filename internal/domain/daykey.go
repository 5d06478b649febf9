package domain

import (
	"time"
)

// DayKeyLayout is the fixed-width format used to address a day in the store.
const DayKeyLayout = "2006-01-02"

// DayKey identifies a calendar day, e.g. "2024-06-10".
type DayKey string

// DayKeyOf returns the key of the calendar day containing t, as seen in loc.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	return DayKey(t.In(loc).Format(DayKeyLayout))
}

// ParseDayKey parses a "YYYY-MM-DD" string into the start of that day in loc.
func ParseDayKey(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DayKeyLayout, s, loc)
}

// StartOfDay truncates t to midnight of its calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Window returns the keys of the `days` calendar days ending at ref, oldest first.
// Days are stepped on the calendar rather than by 24h so DST changes never skip a day.
func Window(ref time.Time, days int, loc *time.Location) []DayKey {
	if days <= 0 {
		return nil
	}
	anchor := StartOfDay(ref, loc)
	keys := make([]DayKey, days)
	for i := 0; i < days; i++ {
		keys[i] = DayKeyOf(anchor.AddDate(0, 0, i-(days-1)), loc)
	}
	return keys
}
