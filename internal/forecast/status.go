package forecast

import (
	"time"

	"github.com/ukydev/fleet-maintenance/internal/models"
)

// Default thresholds used when the owner has not picked any.
const (
	DefaultMileageThreshold = 750
	DefaultDaysThreshold    = 30
)

// Thresholds bound the "due soon" tier on each axis.
type Thresholds struct {
	Mileage int `json:"mileage"`
	Days    int `json:"days"`
}

// DefaultThresholds returns 750 distance units and 30 days.
func DefaultThresholds() Thresholds {
	return Thresholds{Mileage: DefaultMileageThreshold, Days: DefaultDaysThreshold}
}

// ClassifyStatus evaluates a service's deadlines against the current odometer
// and date. Rules are checked in order and the first match wins:
//  1. overdue when the due date is on an earlier day than now
//  2. overdue when the odometer is past the due distance
//  3. due soon by distance when a due distance exists, otherwise by date
//  4. good when any deadline exists
//  5. neutral
//
// Distance and date proximity are never both evaluated for the same service.
func ClassifyStatus(d models.DueDeadlines, odometer int, now time.Time, th Thresholds) models.ServiceStatus {
	if d.DueDate != nil && DaysBetween(now, *d.DueDate) < 0 {
		return models.StatusOverdue
	}
	if d.DueDistance != nil && odometer > *d.DueDistance {
		return models.StatusOverdue
	}

	if d.DueDistance != nil {
		remaining := *d.DueDistance - odometer
		if remaining >= 0 && remaining <= th.Mileage {
			return models.StatusDueSoon
		}
	} else if d.DueDate != nil {
		days := DaysBetween(now, *d.DueDate)
		if days >= 0 && days <= th.Days {
			return models.StatusDueSoon
		}
	}

	if !d.IsEmpty() {
		return models.StatusGood
	}
	return models.StatusNeutral
}
