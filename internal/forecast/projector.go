package forecast

import (
	"math"
	"time"
)

// StaleAfterDays is how old the last confirmed odometer may be before
// projection stops and the confirmed value is reported instead.
const StaleAfterDays = 60

// ProjectOdometer extrapolates the last confirmed odometer value to now using
// pace. Returns nil without a pace or update time, when the value is less than
// a day old, or when it is older than StaleAfterDays.
func ProjectOdometer(pace *float64, last int, updatedAt *time.Time, now time.Time) *int {
	if pace == nil || updatedAt == nil {
		return nil
	}
	days := DaysBetween(*updatedAt, now)
	if days <= 0 || days > StaleAfterDays {
		return nil
	}
	projected := last + int(math.Round(*pace*float64(days)))
	return &projected
}

// EffectiveOdometer is the projected odometer when available, else last.
func EffectiveOdometer(pace *float64, last int, updatedAt *time.Time, now time.Time) int {
	if projected := ProjectOdometer(pace, last, updatedAt, now); projected != nil {
		return *projected
	}
	return last
}
