package forecast

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// Tier boundaries, most demanding first.
const (
	HighSpanDays   = 30
	HighSamples    = 5
	MediumSpanDays = 14
	MediumSamples  = 3
)

// Confidence qualifies a pace estimate with the data that backs it.
type Confidence struct {
	Level        models.PaceConfidence `json:"level"`
	MilesPerDay  float64               `json:"miles_per_day"`
	SampleCount  int                   `json:"sample_count"`
	DateSpanDays int                   `json:"date_span_days"`
}

// ClassifyConfidence returns the confidence tier for the pace estimated from
// readings, or nil when no pace can be estimated.
func ClassifyConfidence(readings []models.OdometerReading, now time.Time) *Confidence {
	pace := EstimatePace(readings, now)
	if pace == nil {
		return nil
	}

	sorted := sortedReadings(readings)
	samples := len(sorted)
	span := spanDays(sorted)

	level := models.ConfidenceLow
	switch {
	case span >= HighSpanDays && samples >= HighSamples:
		level = models.ConfidenceHigh
	case span >= MediumSpanDays && samples >= MediumSamples:
		level = models.ConfidenceMedium
	}

	return &Confidence{
		Level:        level,
		MilesPerDay:  *pace,
		SampleCount:  samples,
		DateSpanDays: span,
	}
}
