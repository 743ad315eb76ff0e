package forecast

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

var base = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func dayN(n int) time.Time { return base.AddDate(0, 0, n) }

func reading(distance, n int) models.OdometerReading {
	return models.OdometerReading{Distance: distance, RecordedAt: dayN(n), Origin: models.OriginManual}
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(t time.Time) *time.Time { return &t }
