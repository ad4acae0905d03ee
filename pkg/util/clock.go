package util

import "time"

// ClockLayout is the zero-padded 24h "HH:MM" layout used for livewire stamps.
const ClockLayout = "15:04"

// FormatClock renders t as "HH:MM" in loc.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(ClockLayout)
}

// NextTopOfHour returns the first instant strictly after t whose minute, second and
// nanosecond are zero in loc. Computed on the wall clock so zones with a
// non-hour UTC offset still fire at local :00.
func NextTopOfHour(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour()+1, 0, 0, 0, loc)
}

// IsTopOfHour reports whether the local minute of t is zero.
func IsTopOfHour(t time.Time, loc *time.Location) bool {
	return t.In(loc).Minute() == 0
}

// OlderThan reports whether modTime lies strictly more than age before now.
func OlderThan(modTime, now time.Time, age time.Duration) bool {
	return now.Sub(modTime) > age
}
