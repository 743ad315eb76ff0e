// Package forecast is the predictive maintenance engine: pace estimation from
// odometer history, due-deadline derivation, status classification and
// urgency scoring. Every function is pure; the caller supplies "now".
package forecast

import "time"

const day = 24 * time.Hour

// DaysBetween returns the whole calendar-day difference from `from` to `to`,
// evaluated in from's location. Time of day is ignored, so 23:00 and 01:00 on
// the following day are one day apart. Negative when to is on an earlier day.
func DaysBetween(from, to time.Time) int {
	to = to.In(from.Location())
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / day)
}
