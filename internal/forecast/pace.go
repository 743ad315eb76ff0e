package forecast

import (
	"math"
	"sort"
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

const (
	// MinReadings is the fewest readings a pace can be estimated from.
	MinReadings = 2
	// MinSpanDays is the shortest oldest-to-newest span a pace can be estimated from.
	MinSpanDays = 7
	// DecayDays is the e-folding time of the recency weight.
	DecayDays = 30.0
)

// EstimatePace returns the recency-weighted distance-per-day for a vehicle's
// readings, or nil when the history is too short or carries no usable interval.
//
// Each consecutive pair (in time order) contributes its own pace, weighted by
// exp(-daysAgo/DecayDays) where daysAgo is measured from now to the pair's
// midpoint. Same-day pairs and non-increasing pairs (odometer corrections) are
// skipped rather than treated as errors.
func EstimatePace(readings []models.OdometerReading, now time.Time) *float64 {
	sorted := sortedReadings(readings)
	if len(sorted) < MinReadings || spanDays(sorted) < MinSpanDays {
		return nil
	}

	var weightedSum, totalWeight float64
	for i := 1; i < len(sorted); i++ {
		earlier, later := sorted[i-1], sorted[i]

		daysBetween := DaysBetween(earlier.RecordedAt, later.RecordedAt)
		if daysBetween <= 0 {
			continue
		}
		milesBetween := later.Distance - earlier.Distance
		if milesBetween <= 0 {
			continue
		}

		intervalPace := float64(milesBetween) / float64(daysBetween)
		midpoint := earlier.RecordedAt.Add(later.RecordedAt.Sub(earlier.RecordedAt) / 2)
		daysAgo := DaysBetween(midpoint, now)
		weight := math.Exp(-float64(daysAgo) / DecayDays)

		weightedSum += intervalPace * weight
		totalWeight += weight
	}

	if totalWeight <= 0 {
		return nil
	}
	pace := weightedSum / totalWeight
	return &pace
}

// sortedReadings returns a copy of readings in ascending RecordedAt order.
// The input is never mutated.
func sortedReadings(readings []models.OdometerReading) []models.OdometerReading {
	sorted := make([]models.OdometerReading, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].RecordedAt.Before(sorted[j].RecordedAt)
	})
	return sorted
}

// spanDays is the oldest-to-newest whole-day span of already sorted readings.
func spanDays(sorted []models.OdometerReading) int {
	if len(sorted) < 2 {
		return 0
	}
	return DaysBetween(sorted[0].RecordedAt, sorted[len(sorted)-1].RecordedAt)
}
