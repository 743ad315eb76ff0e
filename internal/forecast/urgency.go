package forecast

import (
	"math"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// NoDeadline is the urgency score of an item without any deadline.
const NoDeadline = math.MaxInt

// DefaultPace is the distance-per-day assumed when a vehicle has no usable history.
const DefaultPace = 40.0

// UrgencyScore returns the days until the item is due, taking the more urgent
// of the date and distance axes. Distance is converted to days with pace, or
// DefaultPace when pace is unknown. Lower is more urgent; negative means
// overdue; NoDeadline when neither axis has a deadline.
func UrgencyScore(d models.DueDeadlines, odometer int, now time.Time, pace *float64) int {
	score := NoDeadline
	if d.DueDate != nil {
		if days := DaysBetween(now, *d.DueDate); days < score {
			score = days
		}
	}
	if d.DueDistance != nil {
		effectivePace := DefaultPace
		if pace != nil && *pace > 0 {
			effectivePace = *pace
		}
		days := int(math.Floor(float64(*d.DueDistance-odometer) / effectivePace))
		if days < score {
			score = days
		}
	}
	return score
}

// PredictedDateFromMileage is when the odometer is expected to reach the due
// distance at pace. Nil without a positive pace or when the distance is already
// reached.
func PredictedDateFromMileage(d models.DueDeadlines, odometer int, now time.Time, pace *float64) *time.Time {
	if pace == nil || *pace <= 0 || d.DueDistance == nil {
		return nil
	}
	remaining := *d.DueDistance - odometer
	if remaining <= 0 {
		return nil
	}
	days := int(math.Ceil(float64(remaining) / *pace))
	predicted := now.AddDate(0, 0, days)
	return &predicted
}

// EffectiveDueDate is the earlier of the due date and the date predicted from
// mileage, whichever exist.
func EffectiveDueDate(d models.DueDeadlines, odometer int, now time.Time, pace *float64) *time.Time {
	predicted := PredictedDateFromMileage(d, odometer, now, pace)
	if d.DueDate == nil {
		return predicted
	}
	due := *d.DueDate
	if predicted != nil && predicted.Before(due) {
		return predicted
	}
	return &due
}
